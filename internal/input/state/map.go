package state

import (
	"sort"

	"github.com/dshills/modal/internal/input/key"
)

// emptyState is the terminal state.
type emptyState[T any] struct{}

func (emptyState[T]) Press(key.Stroke) (Transition[T], bool) { return Transition[T]{}, false }
func (emptyState[T]) Keys() []key.Code                       { return nil }
func (emptyState[T]) empty() bool                            { return true }

// Empty returns the terminal state.
func Empty[T any]() State[T] {
	return emptyState[T]{}
}

// mapState is an immutable state backed by a map probe.
type mapState[T any] struct {
	bindings map[key.Code]Transition[T]
}

// New builds a state from bindings. When two bindings share a stroke the
// later one wins.
func New[T any](bindings ...Binding[T]) State[T] {
	m := make(map[key.Code]Transition[T], len(bindings))
	for _, b := range bindings {
		m[b.code] = b.transition
	}
	return &mapState[T]{bindings: m}
}

func (m *mapState[T]) Press(s key.Stroke) (Transition[T], bool) {
	t, ok := m.bindings[s.Code()]
	return t, ok
}

func (m *mapState[T]) empty() bool {
	return len(m.bindings) == 0
}

func (m *mapState[T]) Keys() []key.Code {
	return sortedCodes(m.bindings)
}

func sortedCodes[T any](m map[key.Code]Transition[T]) []key.Code {
	codes := make([]key.Code, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		a, b := codes[i], codes[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.Rune != b.Rune {
			return a.Rune < b.Rune
		}
		return a.Modifiers < b.Modifiers
	})
	return codes
}
