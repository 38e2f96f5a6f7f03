package operator

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/textobj"
)

// Pending returns the operator-pending table for op: a counted text object,
// or the operator key again for whole lines.
func Pending(op Operator, objects state.State[vim.TextObject]) state.State[vim.Command] {
	lines := []state.Binding[vim.TextObject]{state.Leaf[vim.TextObject](key.Rune(op.Key), textobj.Lines())}
	if op.Prefixed {
		lines = append(lines, state.Bind(key.Rune('g'), state.Leaf[vim.TextObject](key.Rune(op.Key), textobj.Lines())))
	}
	pending := vim.CountingTextObjects(state.Union(state.New(lines...), objects))
	return state.Convert(pending, func(obj vim.TextObject) vim.Command {
		return New(op.Op, obj)
	})
}

// Bindings returns the editing table of normal mode: operators followed by
// a text object, and the single-key edits.
func Bindings(objects state.State[vim.TextObject]) state.State[vim.Command] {
	r := key.Rune
	leaf := state.Leaf[vim.Command]
	motionObject := func(m vim.Motion) vim.TextObject { return textobj.FromMotion(m) }

	var plain, prefixed []state.Binding[vim.Command]
	for _, op := range Operators() {
		b := state.Trans(r(op.Key), Pending(op, objects))
		if op.Prefixed {
			prefixed = append(prefixed, b)
		} else {
			plain = append(plain, b)
		}
	}

	replace := state.Union(
		state.New(leaf(key.Special(key.KeyEnter), vim.Command(&ReplaceChar{Char: '\n'}))),
		state.ConvertKey(func(s key.Stroke) (vim.Command, bool) {
			ch, ok := s.Character()
			return &ReplaceChar{Char: ch}, ok
		}),
	)

	prefixed = append(prefixed,
		leaf(r('p'), &Paste{After: true, CursorAfter: true}),
		leaf(r('P'), &Paste{CursorAfter: true}),
		leaf(r('J'), &JoinCommand{}),
		leaf(r('I'), &EnterInsert{At: InsertColumnZero}),
		leaf(r('&'), &RepeatSubstitution{Whole: true}),
	)

	plain = append(plain,
		leaf(r('x'), New(Delete{}, motionObject(motion.Right()))),
		leaf(key.Special(key.KeyDelete), New(Delete{}, motionObject(motion.Right()))),
		leaf(r('X'), New(Delete{}, motionObject(motion.Left()))),
		leaf(r('D'), New(Delete{}, motionObject(motion.LineEnd()))),
		leaf(r('C'), New(Change{}, motionObject(motion.LineEnd()))),
		leaf(r('s'), New(Change{}, motionObject(motion.Right()))),
		leaf(r('S'), New(Change{}, textobj.Lines())),
		leaf(r('Y'), New(Yank{}, textobj.Lines())),
		leaf(r('p'), &Paste{After: true}),
		leaf(r('P'), &Paste{}),
		leaf(r('J'), &JoinCommand{Spaces: true}),
		leaf(r('~'), &ToggleCaseChar{}),
		leaf(r('u'), Undo()),
		leaf(key.Ctrl('r'), Redo()),
		leaf(r('&'), &RepeatSubstitution{}),
		leaf(r('i'), &EnterInsert{At: InsertHere}),
		leaf(key.Special(key.KeyInsert), &EnterInsert{At: InsertHere}),
		leaf(r('a'), &EnterInsert{At: InsertAfter}),
		leaf(r('I'), &EnterInsert{At: InsertLineStart}),
		leaf(r('A'), &EnterInsert{At: InsertLineEnd}),
		leaf(r('o'), &EnterInsert{At: OpenBelow}),
		leaf(r('O'), &EnterInsert{At: OpenAbove}),
		state.Trans(r('r'), replace),
		state.Bind(r('g'), prefixed...),
	)
	return state.New(plain...)
}
