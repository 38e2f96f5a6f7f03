package mode

import (
	"unicode/utf8"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/operator"
	"github.com/dshills/modal/internal/vim/textobj"
)

// Visual is one of the three visual modes. The selection head follows the
// cursor, so every cursor motion extends the selection.
type Visual struct {
	*CommandBased
	name string
	kind platform.SelectionKind
}

var _ Mode = (*Visual)(nil)

// NewVisual creates the visual mode with the given name: vim.ModeVisual,
// vim.ModeVisualLine or vim.ModeVisualBlock.
func NewVisual(ed vim.Editor, states *States, tables Tables, name string) *Visual {
	initial := states.Get(name, func() state.State[vim.Command] {
		return visualState(name, tables)
	})
	v := &Visual{
		CommandBased: newCommandBased(ed, initial, keymap.NewResolver(keymap.Visual, visualKeyMaps())),
		name:         name,
		kind:         selectionKind(name),
	}
	v.placeCursor = v.follow
	v.commandDone = func() {
		v.buffer.Clear()
		ed.Registers().ActivateDefault()
	}
	return v
}

func (v *Visual) Name() string             { return v.name }
func (v *Visual) CursorStyle() CursorStyle { return CursorBlock }

func (v *Visual) DisplayName() string {
	switch v.kind {
	case platform.SelectLines:
		return "VISUAL LINE"
	case platform.SelectBlock:
		return "VISUAL BLOCK"
	}
	return "VISUAL"
}

// Enter starts a selection at the cursor, restores the last selection for
// a recall hint, or takes over the selection left by another visual mode.
func (v *Visual) Enter(hints ...vim.Hint) error {
	ed := v.ed
	pos := ed.Position()
	sel := platform.Selection{Anchor: pos, Head: pos}

	h, _ := hint[vim.VisualHint](hints)
	switch {
	case h.Recall:
		last, ok := ed.Registers().LastActiveSelection()
		if !ok {
			return vim.Errorf("%w", vim.ErrNoSelection)
		}
		sel = last
	case h.Selection != nil:
		sel = *h.Selection
	default:
		if cur, ok := ed.Selection().Selection(); ok {
			sel = cur
		}
	}
	c := ed.Content()
	sel.Anchor = vim.ClampPosition(c, sel.Anchor)
	sel.Head = vim.ClampPosition(c, sel.Head)
	sel.Kind = v.kind
	ed.Selection().SetSelection(sel)
	ed.SetPosition(sel.Head, platform.StickyOnChange)

	v.enter()
	return nil
}

// Leave remembers the selection for gv and the < and > marks, then clears
// it unless a KeepSelection hint hands it to another visual mode.
func (v *Visual) Leave(hints ...vim.Hint) error {
	v.leave()
	ed := v.ed
	sel, ok := ed.Selection().Selection()
	if !ok {
		return nil
	}
	if _, keep := hint[vim.KeepSelection](hints); keep {
		return nil
	}
	ed.Registers().SetLastActiveSelection(sel)
	start, end := min(sel.Anchor, sel.Head), max(sel.Anchor, sel.Head)
	ed.Cursor().SetMark(platform.MarkSelectionStart, start)
	ed.Cursor().SetMark(platform.MarkSelectionEnd, end)
	ed.Selection().ClearSelection()
	return nil
}

// follow moves the selection head to the cursor.
func (v *Visual) follow(platform.StickyColumnPolicy) {
	sel, ok := v.ed.Selection().Selection()
	if !ok {
		return
	}
	if pos := v.ed.Position(); sel.Head != pos {
		sel.Head = pos
		v.ed.Selection().SetSelection(sel)
	}
}

func selectionKind(name string) platform.SelectionKind {
	switch name {
	case vim.ModeVisualLine:
		return platform.SelectLines
	case vim.ModeVisualBlock:
		return platform.SelectBlock
	}
	return platform.SelectCharacters
}

func visualModeName(kind platform.SelectionKind) string {
	switch kind {
	case platform.SelectLines:
		return vim.ModeVisualLine
	case platform.SelectBlock:
		return vim.ModeVisualBlock
	}
	return vim.ModeVisual
}

func visualState(name string, t Tables) state.State[vim.Command] {
	r := key.Rune
	leaf := state.Leaf[vim.Command]
	toNormal := vim.CommandFunc(func(ed vim.Editor) error {
		return ed.ChangeMode(vim.ModeNormal, vim.FromVisual{})
	})

	ops := map[key.Code]vim.TextOperation{
		r('d').Code():                     operator.Delete{},
		r('x').Code():                     operator.Delete{},
		key.Special(key.KeyDelete).Code(): operator.Delete{},
		r('y').Code():                     operator.Yank{},
		r('c').Code():                     operator.Change{},
		r('s').Code():                     operator.Change{},
		r('>').Code():                     operator.Shift{},
		r('<').Code():                     operator.Shift{Left: true},
		r('~').Code():                     operator.Case{Kind: operator.ToggleCase},
		r('u').Code():                     operator.Case{Kind: operator.LowerCase},
		r('U').Code():                     operator.Case{Kind: operator.UpperCase},
		r('J').Code():                     operator.Join{Spaces: true},
	}
	prefixedOps := map[key.Code]vim.TextOperation{
		r('J').Code(): operator.Join{},
		r('?').Code(): operator.Case{Kind: operator.Rot13},
		r('~').Code(): operator.Case{Kind: operator.ToggleCase},
		r('u').Code(): operator.Case{Kind: operator.LowerCase},
		r('U').Code(): operator.Case{Kind: operator.UpperCase},
	}

	var switches []state.Binding[vim.Command]
	for _, other := range []struct {
		s    key.Stroke
		name string
	}{
		{r('v'), vim.ModeVisual},
		{r('V'), vim.ModeVisualLine},
		{key.Ctrl('v'), vim.ModeVisualBlock},
	} {
		if other.name == name {
			switches = append(switches, leaf(other.s, toNormal))
		} else {
			switches = append(switches, leaf(other.s, switchVisual(other.name)))
		}
	}

	var top state.State[vim.Command]
	builtin := state.New(append(switches,
		state.Trans(r('"'), registerPrefix(&top)),
		leaf(key.Special(key.KeyEscape), toNormal),
		leaf(key.Ctrl('c'), toNormal),
		leaf(r('o'), vim.CommandFunc(swapEnds)),
		leaf(r('O'), vim.CommandFunc(swapEnds)),
		leaf(r(':'), vim.CommandFunc(visualCommandLine)),
		state.Trans(r('g'), state.Union(
			state.New(leaf(r('v'), vim.CommandFunc(swapWithLast))),
			perPress(prefixedOps),
		)),
	)...)

	selectObject := state.Convert(vim.CountingTextObjects(textobj.Objects()), func(o vim.TextObject) vim.Command {
		return &SelectObject{Object: o}
	})
	tables := []state.State[vim.Command]{builtin, perPress(ops), selectObject, motion.Commands(t.Motions)}
	tables = append(tables, t.Visual...)
	top = vim.CountingCommands(state.Union(tables...))
	return top
}

// visualKeyMaps turns remapping off for the argument of f and t and marks.
func visualKeyMaps() state.State[string] {
	var bindings []state.Binding[string]
	for _, k := range []rune{'f', 'F', 't', 'T', '\'', '`', '"'} {
		bindings = append(bindings, state.Leaf(key.Rune(k), ""))
	}
	return vim.Counting(state.New(bindings...), func(v string, _ int) string { return v })
}

// perPress builds a fresh command for every press, so the command can
// remember the selection it ran on for its repetition.
func perPress(ops map[key.Code]vim.TextOperation) state.State[vim.Command] {
	return state.Func(func(s key.Stroke) (state.Transition[vim.Command], bool) {
		op, ok := ops[s.Code()]
		if !ok {
			return state.Transition[vim.Command]{}, false
		}
		return state.NewTransition[vim.Command](&SelectionOperation{Op: op}, nil), true
	})
}

func switchVisual(name string) vim.Command {
	return vim.CommandFunc(func(ed vim.Editor) error {
		return ed.ChangeMode(name, vim.KeepSelection{})
	})
}

func swapEnds(ed vim.Editor) error {
	sel, ok := ed.Selection().Selection()
	if !ok {
		return vim.Errorf("%w", vim.ErrNoSelection)
	}
	sel.Anchor, sel.Head = sel.Head, sel.Anchor
	ed.Selection().SetSelection(sel)
	ed.SetPosition(sel.Head, platform.StickyOnChange)
	return nil
}

// swapWithLast exchanges the selection with the last one (gv in visual
// mode).
func swapWithLast(ed vim.Editor) error {
	last, ok := ed.Registers().LastActiveSelection()
	if !ok {
		return vim.Errorf("%w", vim.ErrNoSelection)
	}
	if cur, ok := ed.Selection().Selection(); ok {
		ed.Registers().SetLastActiveSelection(cur)
	}
	ed.Selection().SetSelection(last)
	ed.SetPosition(last.Head, platform.StickyOnChange)
	if name := visualModeName(last.Kind); name != ed.ModeName() {
		return ed.ChangeMode(name, vim.KeepSelection{})
	}
	return nil
}

func visualCommandLine(ed vim.Editor) error {
	if err := ed.ChangeMode(vim.ModeNormal, vim.FromVisual{}); err != nil {
		return err
	}
	return ed.ChangeMode(vim.ModeCommandLine, vim.CommandLineHint{Text: "'<,'>"})
}

// SelectionOperation applies an operation to the selection and returns to
// normal mode, unless the operation entered another mode itself.
type SelectionOperation struct {
	Op vim.TextOperation

	// sized is the selection as an object anchored at the cursor.
	sized vim.TextObject
}

func (o *SelectionOperation) Execute(ed vim.Editor) error {
	o.sized = sameSize(ed)
	err := operator.New(o.Op, textobj.Selection{}).Execute(ed)
	if isVisual(ed.ModeName()) {
		if merr := ed.ChangeMode(vim.ModeNormal, vim.FromVisual{}); err == nil {
			err = merr
		}
	}
	return err
}

// Repetition applies the operation to as many lines, or characters on one
// line, as the selection covered. Other selections do not repeat.
func (o *SelectionOperation) Repetition() vim.Command {
	if o.sized == nil {
		return nil
	}
	op := o.Op.Repetition()
	if op == nil {
		return nil
	}
	return operator.New(op, o.sized)
}

// sameSize describes the current selection as a text object anchored at
// the cursor, or returns nil when it has no such form.
func sameSize(ed vim.Editor) vim.TextObject {
	sel, ok := ed.Selection().Selection()
	if !ok {
		return nil
	}
	c := ed.Content()
	a := c.LineInformationOfOffset(sel.Anchor)
	h := c.LineInformationOfOffset(sel.Head)
	switch {
	case sel.Kind == platform.SelectLines:
		lines := max(a.Number, h.Number) - min(a.Number, h.Number) + 1
		return vim.TextObjectWithCount(textobj.Lines(), lines)
	case sel.Kind == platform.SelectCharacters && a.Number == h.Number:
		start, end := min(sel.Anchor, sel.Head), max(sel.Anchor, sel.Head)
		chars := utf8.RuneCountInString(c.Text(start, end-start)) + 1
		return vim.TextObjectWithCount(textobj.FromMotion(motion.Right()), chars)
	}
	return nil
}

func isVisual(name string) bool {
	switch name {
	case vim.ModeVisual, vim.ModeVisualLine, vim.ModeVisualBlock:
		return true
	}
	return false
}

// SelectObject selects a text object (viw, vap).
type SelectObject struct {
	Object vim.TextObject
}

func (s *SelectObject) Execute(ed vim.Editor) error {
	r, err := s.Object.Region(ed)
	if err != nil {
		return err
	}
	if r.IsEmpty() {
		return nil
	}
	sel, _ := ed.Selection().Selection()
	sel.Anchor = r.Start
	sel.Head = vim.PrevOffset(ed.Content(), r.End)
	ed.Selection().SetSelection(sel)
	ed.SetPosition(sel.Head, platform.StickyOnChange)
	return nil
}

func (s *SelectObject) WithCount(n int) vim.Command {
	return &SelectObject{Object: vim.TextObjectWithCount(s.Object, n)}
}
