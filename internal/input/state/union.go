package state

import (
	"github.com/dshills/modal/internal/input/key"
)

// unionState merges two states lazily so that dynamic operands stay live.
type unionState[T any] struct {
	first, second State[T]
}

// Union merges states left to right. Every key of every operand is
// reachable. Where operands share a key, the earlier operand's value wins
// and the continuations are merged recursively, so "gg" from one table and
// "gu" from another both survive under "g".
func Union[T any](states ...State[T]) State[T] {
	var out State[T]
	for _, st := range states {
		switch {
		case IsEmpty(st):
			continue
		case out == nil:
			out = st
		default:
			out = &unionState[T]{first: out, second: st}
		}
	}
	if out == nil {
		return Empty[T]()
	}
	return out
}

func (u *unionState[T]) Press(s key.Stroke) (Transition[T], bool) {
	a, okA := u.first.Press(s)
	b, okB := u.second.Press(s)
	switch {
	case okA && okB:
		return mergeTransitions(a, b), true
	case okA:
		return a, true
	case okB:
		return b, true
	}
	return Transition[T]{}, false
}

func (u *unionState[T]) Keys() []key.Code {
	seen := make(map[key.Code]Transition[T])
	for _, c := range u.first.Keys() {
		seen[c] = Transition[T]{}
	}
	for _, c := range u.second.Keys() {
		seen[c] = Transition[T]{}
	}
	return sortedCodes(seen)
}

func (u *unionState[T]) empty() bool {
	return IsEmpty(u.first) && IsEmpty(u.second)
}

func mergeTransitions[T any](a, b Transition[T]) Transition[T] {
	merged := Transition[T]{next: Union(a.Next(), b.Next())}
	switch {
	case a.hasValue:
		merged.value, merged.hasValue = a.value, true
	case b.hasValue:
		merged.value, merged.hasValue = b.value, true
	}
	return merged
}
