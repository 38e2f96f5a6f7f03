package mode

import (
	"fmt"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/operator"
	"github.com/dshills/modal/internal/vim/textobj"
)

// Tables are the key tables the command based modes are built from.
type Tables struct {
	Motions state.State[vim.Motion]
	Objects state.State[vim.TextObject]

	// Normal and Visual are extension tables, such as surround or macro
	// recording. They are merged after the built in bindings, which win
	// on conflicting keys.
	Normal []state.State[vim.Command]
	Visual []state.State[vim.Command]
}

// NewTables builds the motion and operator-pending tables with pairs
// driving "%".
func NewTables(pairs *motion.Pairs) Tables {
	motions := motion.Bindings(pairs)
	return Tables{Motions: motions, Objects: textobj.Bindings(motions)}
}

// Normal is normal mode.
type Normal struct {
	*CommandBased
}

var _ Mode = (*Normal)(nil)

// NewNormal creates normal mode. Its table is taken from states, built
// from tables on first use.
func NewNormal(ed vim.Editor, states *States, tables Tables) *Normal {
	initial := states.Get(vim.ModeNormal, func() state.State[vim.Command] {
		return normalState(tables)
	})
	n := &Normal{CommandBased: newCommandBased(ed, initial, keymap.NewResolver(keymap.Normal, normalKeyMaps()))}
	n.placeCursor = n.place
	n.commandDone = func() {
		n.buffer.Clear()
		ed.Registers().ActivateDefault()
	}
	return n
}

func (n *Normal) Name() string             { return vim.ModeNormal }
func (n *Normal) DisplayName() string      { return "NORMAL" }
func (n *Normal) CursorStyle() CursorStyle { return CursorBlock }

// Enter resets the pending keys and runs the command of an ExecuteHint.
func (n *Normal) Enter(hints ...vim.Hint) error {
	n.enter()
	n.ed.Registers().ActivateDefault()
	n.runHint(hints)
	if n.active {
		n.place(platform.StickyNever)
	}
	return nil
}

func (n *Normal) Leave(...vim.Hint) error {
	n.leave()
	return nil
}

// place keeps the cursor off the line terminator of a non-empty line.
func (n *Normal) place(policy platform.StickyColumnPolicy) {
	c := n.ed.Content()
	pos := vim.ClampPosition(c, n.ed.Position())
	line := c.LineInformationOfOffset(pos)
	if pos >= line.End() && line.Length > 0 {
		pos = vim.LastCharOffset(c, line)
	}
	if pos != n.ed.Position() {
		n.ed.SetPosition(pos, policy)
	}
}

func normalState(t Tables) state.State[vim.Command] {
	r := key.Rune
	leaf := state.Leaf[vim.Command]

	var top state.State[vim.Command]
	builtin := state.New(
		state.Trans(r('"'), registerPrefix(&top)),
		leaf(r('.'), &Repeat{}),
		state.Trans(r('m'), state.ConvertKey(setMark)),
		leaf(r('v'), enterVisual(vim.ModeVisual)),
		leaf(r('V'), enterVisual(vim.ModeVisualLine)),
		leaf(key.Ctrl('v'), enterVisual(vim.ModeVisualBlock)),
		leaf(r(':'), vim.NewCountedFunc(openCommandLine, false)),
		leaf(r('/'), enterSearch(false)),
		leaf(r('?'), enterSearch(true)),
		state.Bind(r('g'),
			leaf(r('v'), vim.CommandFunc(RecallVisual)),
			leaf(r('a'), vim.CommandFunc(charInfo)),
		),
	)
	tables := []state.State[vim.Command]{builtin, operator.Bindings(t.Objects), motion.Commands(t.Motions)}
	tables = append(tables, t.Normal...)
	top = vim.CountingCommands(state.Union(tables...))
	return top
}

// registerPrefix selects a register and continues in *top, so that a
// count or another command may follow ("a3yy).
func registerPrefix(top *state.State[vim.Command]) state.State[vim.Command] {
	again := state.Lazy(func() state.State[vim.Command] { return *top })
	return state.Func(func(s key.Stroke) (state.Transition[vim.Command], bool) {
		ch, ok := s.Character()
		if !ok || !vim.IsValidName(ch) {
			return state.Transition[vim.Command]{}, false
		}
		return state.NewTransition[vim.Command](vim.SwitchRegister{Name: ch}, again), true
	})
}

// normalKeyMaps switches to the operator-pending keymap after an operator
// and turns remapping off for the character argument of f, t, r, m and
// the register, mark and macro prefixes.
func normalKeyMaps() state.State[string] {
	r := key.Rune
	keep := func(v string, _ int) string { return v }

	literal := func(keys ...rune) []state.Binding[string] {
		var bs []state.Binding[string]
		for _, k := range keys {
			bs = append(bs, state.Leaf(r(k), ""))
		}
		return bs
	}
	pending := vim.Counting(state.New(literal('f', 'F', 't', 'T', '\'', '`')...), keep)

	var top state.State[string]
	again := state.Lazy(func() state.State[string] { return top })
	register := state.Func(func(s key.Stroke) (state.Transition[string], bool) {
		if !s.IsPrintable() {
			return state.Transition[string]{}, false
		}
		return state.NewTransition(keymap.Normal, again), true
	})

	bindings := literal('f', 'F', 't', 'T', '\'', '`', 'r', 'm', 'q', '@')
	bindings = append(bindings, state.LeafTrans(r('"'), "", register))
	var prefixed []state.Binding[string]
	for _, op := range operator.Operators() {
		b := state.LeafTrans(r(op.Key), keymap.OperatorPending, pending)
		if op.Prefixed {
			prefixed = append(prefixed, b)
		} else {
			bindings = append(bindings, b)
		}
	}
	bindings = append(bindings, state.Bind(r('g'), prefixed...))
	top = vim.Counting(state.New(bindings...), keep)
	return top
}

// Repeat runs the last edit again (.). A count replaces the count of the
// edit.
type Repeat struct {
	count int
}

func (c *Repeat) Execute(ed vim.Editor) error {
	last := ed.Registers().LastEdit()
	if last == nil {
		return vim.Errorf("%w: edit", vim.ErrNoPrevious)
	}
	if err := vim.WithCount(last, c.count).Execute(ed); err != nil {
		return err
	}
	ed.Cursor().SetMark(platform.MarkLastEdit, ed.Position())
	return nil
}

func (c *Repeat) WithCount(n int) vim.Command {
	return &Repeat{count: n}
}

func setMark(s key.Stroke) (vim.Command, bool) {
	ch, _ := s.Character()
	if !motion.IsMarkName(ch) {
		return nil, false
	}
	if ch == '`' {
		ch = platform.MarkPreviousContext
	}
	return vim.CommandFunc(func(ed vim.Editor) error {
		ed.Cursor().SetMark(ch, ed.Position())
		return nil
	}), true
}

func enterVisual(name string) vim.Command {
	return vim.CommandFunc(func(ed vim.Editor) error {
		return ed.ChangeMode(name, vim.VisualHint{Kind: selectionKind(name)})
	})
}

// RecallVisual reselects the last visual selection in its own mode (gv).
func RecallVisual(ed vim.Editor) error {
	last, ok := ed.Registers().LastActiveSelection()
	if !ok {
		return vim.Errorf("%w", vim.ErrNoSelection)
	}
	return ed.ChangeMode(visualModeName(last.Kind), vim.VisualHint{Kind: last.Kind, Recall: true})
}

// openCommandLine enters the command line; a count pre-fills a range over
// that many lines.
func openCommandLine(ed vim.Editor, count int) error {
	text := ""
	if count > 1 {
		text = fmt.Sprintf(".,.+%d", count-1)
	}
	return ed.ChangeMode(vim.ModeCommandLine, vim.CommandLineHint{Text: text})
}

func enterSearch(backward bool) vim.Command {
	return vim.CommandFunc(func(ed vim.Editor) error {
		return ed.ChangeMode(vim.ModeSearch, vim.SearchHint{Backward: backward})
	})
}

// charInfo shows the code of the character under the cursor (ga).
func charInfo(ed vim.Editor) error {
	c := ed.Content()
	pos := ed.Position()
	if pos >= c.TextLength() {
		ed.UI().SetLastCommandResult("NUL")
		return nil
	}
	ch, _ := vim.RuneAt(c, pos)
	ed.UI().SetLastCommandResult(fmt.Sprintf("<%s> %d, Hex %02x, Oct %03o", key.Rune(ch).String(), ch, ch, ch))
	return nil
}
