package vim

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
)

// maxCount bounds count prefixes.
const maxCount = 99999999

// countingState accepts a count prefix before delegating to inner.
type countingState[T any] struct {
	inner     state.State[T]
	withCount func(T, int) T
	count     int
}

// Counting wraps a state so that a decimal count may precede any of its
// sequences. A leading 0 is not a count, which leaves "0" free for the
// start-of-line motion. The count is applied with withCount to the value
// the sequence produces.
func Counting[T any](inner state.State[T], withCount func(T, int) T) state.State[T] {
	return &countingState[T]{inner: inner, withCount: withCount}
}

// CountingCommands wraps a command table.
func CountingCommands(inner state.State[Command]) state.State[Command] {
	return Counting(inner, WithCount)
}

// CountingTextObjects wraps a text object table.
func CountingTextObjects(inner state.State[TextObject]) state.State[TextObject] {
	return Counting(inner, TextObjectWithCount)
}

func (c *countingState[T]) Press(s key.Stroke) (state.Transition[T], bool) {
	if d, ok := digit(s); ok && (d != 0 || c.count > 0) {
		next := &countingState[T]{inner: c.inner, withCount: c.withCount, count: min(c.count*10+d, maxCount)}
		return state.Continue[T](next), true
	}

	t, ok := c.inner.Press(s)
	if !ok || c.count == 0 {
		return t, ok
	}
	count := c.count
	apply := func(v T) T { return c.withCount(v, count) }
	next := state.Convert(t.Next(), apply)
	if v, ok := t.Value(); ok {
		return state.NewTransition(apply(v), next), true
	}
	return state.Continue(next), true
}

func (c *countingState[T]) Keys() []key.Code {
	return c.inner.Keys()
}

func digit(s key.Stroke) (int, bool) {
	if !s.IsPrintable() || s.Rune < '0' || s.Rune > '9' {
		return 0, false
	}
	return int(s.Rune - '0'), true
}
