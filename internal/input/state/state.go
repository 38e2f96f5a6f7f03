package state

import (
	"github.com/dshills/modal/internal/input/key"
)

// State is a node of the keystroke trie.
type State[T any] interface {
	// Press looks up the transition for a stroke. The boolean is false when
	// the stroke is not recognised at this point.
	Press(s key.Stroke) (Transition[T], bool)

	// Keys returns the codes this state binds explicitly. States that accept
	// open-ended input, such as a register name, return nil.
	Keys() []key.Code
}

// Transition is the result of pressing a key.
type Transition[T any] struct {
	value    T
	hasValue bool
	next     State[T]
}

// NewTransition creates a transition carrying a value and a continuation.
// A nil next state is terminal.
func NewTransition[T any](value T, next State[T]) Transition[T] {
	return Transition[T]{value: value, hasValue: true, next: next}
}

// Continue creates a transition without a value.
func Continue[T any](next State[T]) Transition[T] {
	return Transition[T]{next: next}
}

// Value returns the value produced by the transition, if any.
func (t Transition[T]) Value() (T, bool) {
	return t.value, t.hasValue
}

// Next returns the state to continue from. It is never nil; a terminal
// transition returns an empty state.
func (t Transition[T]) Next() State[T] {
	if t.next == nil {
		return Empty[T]()
	}
	return t.next
}

// Terminal reports whether no further keys can extend the sequence.
func (t Transition[T]) Terminal() bool {
	return IsEmpty(t.next)
}

// Binding associates a stroke with a transition. Bindings are the building
// blocks passed to New.
type Binding[T any] struct {
	code       key.Code
	transition Transition[T]
}

// Code returns the bound stroke identity.
func (b Binding[T]) Code() key.Code {
	return b.code
}

// Leaf binds a stroke to a value that completes the sequence.
func Leaf[T any](s key.Stroke, value T) Binding[T] {
	return Binding[T]{code: s.Code(), transition: NewTransition[T](value, nil)}
}

// LeafSeq binds a multi-key sequence in notation form, e.g. "gg", to a value.
// It panics on malformed notation and is meant for static tables.
func LeafSeq[T any](spec string, value T) Binding[T] {
	strokes := key.MustParseSequence(spec)
	b := Leaf(strokes[len(strokes)-1], value)
	for i := len(strokes) - 2; i >= 0; i-- {
		b = Binding[T]{code: strokes[i].Code(), transition: Continue(New(b))}
	}
	return b
}

// Trans binds a stroke to a sub-state.
func Trans[T any](s key.Stroke, next State[T]) Binding[T] {
	return Binding[T]{code: s.Code(), transition: Continue(next)}
}

// Bind binds a stroke to a sub-state built from the given bindings.
func Bind[T any](s key.Stroke, bindings ...Binding[T]) Binding[T] {
	return Trans(s, New(bindings...))
}

// LeafTrans binds a stroke to a value that is produced immediately while the
// sequence continues in next.
func LeafTrans[T any](s key.Stroke, value T, next State[T]) Binding[T] {
	return Binding[T]{code: s.Code(), transition: NewTransition(value, next)}
}

// Press is a nil-safe lookup helper.
func Press[T any](st State[T], s key.Stroke) (Transition[T], bool) {
	if st == nil {
		return Transition[T]{}, false
	}
	return st.Press(s)
}

// IsEmpty reports whether a state binds nothing.
func IsEmpty[T any](st State[T]) bool {
	if st == nil {
		return true
	}
	if e, ok := st.(interface{ empty() bool }); ok {
		return e.empty()
	}
	return false
}
