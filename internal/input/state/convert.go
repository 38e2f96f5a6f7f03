package state

import (
	"github.com/dshills/modal/internal/input/key"
)

// convertState maps the values of an inner state through a function.
type convertState[A, B any] struct {
	inner   State[A]
	convert func(A) B
}

// Convert wraps a state producing A into one producing B. The conversion is
// applied to every value reachable from the state, at any depth. It is how
// a table of motions becomes a table of commands, or a table of text objects
// becomes a table of delete commands.
func Convert[A, B any](inner State[A], convert func(A) B) State[B] {
	if IsEmpty(inner) {
		return Empty[B]()
	}
	return &convertState[A, B]{inner: inner, convert: convert}
}

func (c *convertState[A, B]) Press(s key.Stroke) (Transition[B], bool) {
	t, ok := c.inner.Press(s)
	if !ok {
		return Transition[B]{}, false
	}
	out := Transition[B]{next: Convert(t.Next(), c.convert)}
	if v, ok := t.Value(); ok {
		out.value, out.hasValue = c.convert(v), true
	}
	return out, true
}

func (c *convertState[A, B]) Keys() []key.Code {
	return c.inner.Keys()
}

func (c *convertState[A, B]) empty() bool {
	return IsEmpty(c.inner)
}

// funcState resolves strokes with a function instead of a table.
type funcState[T any] struct {
	press func(key.Stroke) (Transition[T], bool)
}

// Func returns a state whose transitions are computed per stroke. It serves
// open-ended input such as the character after "f" or a register name.
func Func[T any](press func(key.Stroke) (Transition[T], bool)) State[T] {
	return &funcState[T]{press: press}
}

// ConvertKey returns a state that turns any printable stroke into a leaf
// value. Returning false from fn rejects the stroke.
func ConvertKey[T any](fn func(key.Stroke) (T, bool)) State[T] {
	return Func(func(s key.Stroke) (Transition[T], bool) {
		if !s.IsPrintable() {
			return Transition[T]{}, false
		}
		v, ok := fn(s)
		if !ok {
			return Transition[T]{}, false
		}
		return NewTransition[T](v, nil), true
	})
}

func (f *funcState[T]) Press(s key.Stroke) (Transition[T], bool) {
	return f.press(s)
}

func (f *funcState[T]) Keys() []key.Code {
	return nil
}

// lazyState defers construction of a state until first use.
type lazyState[T any] struct {
	build func() State[T]
	built State[T]
}

// Lazy returns a state built on first press. It lets a table refer to
// itself, as the register prefix does when it continues in the mode's
// initial state.
func Lazy[T any](build func() State[T]) State[T] {
	return &lazyState[T]{build: build}
}

func (l *lazyState[T]) get() State[T] {
	if l.built == nil {
		l.built = l.build()
	}
	return l.built
}

func (l *lazyState[T]) Press(s key.Stroke) (Transition[T], bool) {
	return l.get().Press(s)
}

func (l *lazyState[T]) Keys() []key.Code {
	return l.get().Keys()
}

// thenState continues in a state built from each value of an inner state.
type thenState[A, B any] struct {
	inner State[A]
	then  func(A) State[B]
}

// Then chains two tables: a sequence completing a value of inner goes on
// in the state then builds from that value. A text object followed by a
// delimiter character is read this way.
func Then[A, B any](inner State[A], then func(A) State[B]) State[B] {
	if IsEmpty(inner) {
		return Empty[B]()
	}
	return &thenState[A, B]{inner: inner, then: then}
}

func (c *thenState[A, B]) Press(s key.Stroke) (Transition[B], bool) {
	t, ok := c.inner.Press(s)
	if !ok {
		return Transition[B]{}, false
	}
	next := Then(t.Next(), c.then)
	if v, ok := t.Value(); ok {
		next = Union(c.then(v), next)
	}
	return Continue(next), true
}

func (c *thenState[A, B]) Keys() []key.Code {
	return c.inner.Keys()
}

func (c *thenState[A, B]) empty() bool {
	return IsEmpty(c.inner)
}
