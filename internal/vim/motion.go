package vim

import (
	"github.com/dshills/modal/internal/platform"
)

// BorderPolicy says whether the character at a motion's destination is part
// of the range an operator acts on.
type BorderPolicy int

const (
	// Exclusive excludes the destination character.
	Exclusive BorderPolicy = iota

	// Inclusive includes the destination character.
	Inclusive
)

// Wise classifies the span between the cursor and a motion's destination.
type Wise int

const (
	Characterwise Wise = iota
	Linewise
	Blockwise
)

// Motion computes a destination from the cursor. Motions never change the
// buffer or move the cursor themselves.
type Motion interface {
	Destination(ed Editor) (int, error)
	BorderPolicy() BorderPolicy
	Wise() Wise
}

// StickyMotion is implemented by motions that do not recompute the sticky
// column, such as j and k, or that pin it to the end of line, such as $.
type StickyMotion interface {
	StickyPolicy() platform.StickyColumnPolicy
}

// JumpMotion is implemented by motions that set the previous context mark
// before moving, such as G, % and searches.
type JumpMotion interface {
	IsJump() bool
}

// DeferredMotion is implemented by motions that stand for another motion
// chosen from session state when they run, such as ";" repeating the last
// "f". Consumers resolve a motion before asking for its border policy.
type DeferredMotion interface {
	Resolve(ed Editor) (Motion, error)
}

// ResolveMotion returns the concrete motion m stands for.
func ResolveMotion(ed Editor, m Motion) (Motion, error) {
	for {
		d, ok := m.(DeferredMotion)
		if !ok {
			return m, nil
		}
		next, err := d.Resolve(ed)
		if err != nil {
			return nil, err
		}
		m = next
	}
}

// MotionWithCount applies a count to m when it is Counted.
func MotionWithCount(m Motion, n int) Motion {
	if n <= NoCount {
		return m
	}
	if c, ok := m.(Counted[Motion]); ok {
		return c.WithCount(n)
	}
	return m
}

// StickyPolicyOf returns the sticky policy a motion's move should use.
func StickyPolicyOf(m Motion) platform.StickyColumnPolicy {
	if s, ok := m.(StickyMotion); ok {
		return s.StickyPolicy()
	}
	return platform.StickyOnChange
}

// IsJump reports whether m is a jump.
func IsJump(m Motion) bool {
	j, ok := m.(JumpMotion)
	return ok && j.IsJump()
}

// TextObject computes a range over the buffer.
type TextObject interface {
	Region(ed Editor) (TextRange, error)
	ContentType(cfg platform.Configuration) ContentType
}

// TextObjectWithCount applies a count to t when it is Counted.
func TextObjectWithCount(t TextObject, n int) TextObject {
	if n <= NoCount {
		return t
	}
	if c, ok := t.(Counted[TextObject]); ok {
		return c.WithCount(n)
	}
	return t
}

// TextOperation acts on the range of a text object: delete, yank, change,
// shift, surround.
type TextOperation interface {
	Apply(ed Editor, obj TextObject) error

	// Repetition returns the operation to replay with ".", or nil.
	Repetition() TextOperation
}
