package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
)

// ErrNoMapping is returned when removing a mapping that does not exist.
var ErrNoMapping = errors.New("no such mapping")

// Remapping replaces the strokes of LHS with those of RHS. The strokes of a
// recursive remapping are mapped again.
type Remapping struct {
	LHS       []key.Stroke
	RHS       []key.Stroke
	Recursive bool
}

// String renders the remapping in :map listing form.
func (m Remapping) String() string {
	marker := " "
	if !m.Recursive {
		marker = "*"
	}
	return fmt.Sprintf("%-10s %s %s", key.FormatSequence(m.LHS), marker, key.FormatSequence(m.RHS))
}

// Registry holds the mappings of every keymap.
type Registry struct {
	mu sync.RWMutex

	// mappings holds remappings by keymap name, then by LHS notation.
	mappings map[string]map[string]Remapping

	// states caches the trie of each keymap until it changes.
	states map[string]state.State[Remapping]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mappings: make(map[string]map[string]Remapping),
		states:   make(map[string]state.State[Remapping]),
	}
}

// Map adds a mapping to a keymap, replacing one with the same LHS.
func (r *Registry) Map(name string, m Remapping) error {
	if len(m.LHS) == 0 {
		return fmt.Errorf("mapping in %s: empty left-hand side", name)
	}
	if len(m.RHS) == 0 {
		return fmt.Errorf("mapping %s in %s: empty right-hand side", key.FormatSequence(m.LHS), name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	km, ok := r.mappings[name]
	if !ok {
		km = make(map[string]Remapping)
		r.mappings[name] = km
	}
	km[key.FormatSequence(m.LHS)] = m
	delete(r.states, name)
	return nil
}

// Unmap removes the mapping for lhs from a keymap.
func (r *Registry) Unmap(name string, lhs []key.Stroke) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec := key.FormatSequence(lhs)
	if _, ok := r.mappings[name][spec]; !ok {
		return fmt.Errorf("%w: %s in %s", ErrNoMapping, spec, name)
	}
	delete(r.mappings[name], spec)
	delete(r.states, name)
	return nil
}

// Clear removes every mapping of a keymap.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappings, name)
	delete(r.states, name)
}

// Mappings returns the mappings of a keymap sorted by LHS.
func (r *Registry) Mappings(name string) []Remapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]string, 0, len(r.mappings[name]))
	for spec := range r.mappings[name] {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	out := make([]Remapping, len(specs))
	for i, spec := range specs {
		out[i] = r.mappings[name][spec]
	}
	return out
}

// State returns the trie of a keymap. Where one LHS is a prefix of another
// the shorter one completes first.
func (r *Registry) State(name string) state.State[Remapping] {
	r.mu.RLock()
	st, ok := r.states[name]
	r.mu.RUnlock()
	if ok {
		return st
	}

	mappings := r.Mappings(name)
	states := make([]state.State[Remapping], len(mappings))
	for i, m := range mappings {
		states[i] = chain(m.LHS, m)
	}
	st = state.Union(states...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[name] = st
	return st
}

// chain builds the state that reaches m through strokes.
func chain(strokes []key.Stroke, m Remapping) state.State[Remapping] {
	if len(strokes) == 1 {
		return state.New(state.Leaf(strokes[0], m))
	}
	return state.New(state.Trans(strokes[0], chain(strokes[1:], m)))
}
