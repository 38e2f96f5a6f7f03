package mode

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/operator"
)

// Insert is insert mode. Typed text goes into the buffer; leaving the mode
// records the session for "." and the "." register.
type Insert struct {
	ed   vim.Editor
	hint vim.InsertHint

	// start is where the text typed since entering, or since the last
	// cursor movement, begins.
	start int
	open  bool

	// next is a one-stroke argument: a register after <C-r>, a literal
	// character after <C-v>.
	next func(s key.Stroke)

	held []string
}

var _ Mode = (*Insert)(nil)

// NewInsert creates insert mode.
func NewInsert(ed vim.Editor) *Insert {
	return &Insert{ed: ed}
}

func (i *Insert) Name() string             { return vim.ModeInsert }
func (i *Insert) DisplayName() string      { return "INSERT" }
func (i *Insert) CursorStyle() CursorStyle { return CursorBar }

// Enter opens a compound change that lasts until the mode is left.
func (i *Insert) Enter(hints ...vim.Hint) error {
	i.hint, _ = hint[vim.InsertHint](hints)
	i.start = i.ed.Position()
	i.next = nil
	i.held = nil
	if !i.open {
		i.ed.History().BeginCompoundChange()
		i.open = true
	}
	return nil
}

func (i *Insert) Leave(...vim.Hint) error {
	if i.open {
		i.ed.History().EndCompoundChange()
		i.open = false
	}
	i.ed.UI().SetCommandLine("")
	return nil
}

// KeyMap is "" for the argument of <C-r> and <C-v>.
func (i *Insert) KeyMap() string {
	if i.next != nil {
		return ""
	}
	return keymap.Insert
}

// AddKeyToMapBuffer shows a key held back by the remapper, such as the j
// of an inoremap jk.
func (i *Insert) AddKeyToMapBuffer(s key.Stroke) {
	i.held = append(i.held, s.Display())
	i.ed.UI().SetCommandLine(strings.Join(i.held, ""))
}

func (i *Insert) CleanMapBuffer(bool) {
	i.held = nil
	i.ed.UI().SetCommandLine("")
}

func (i *Insert) Press(s key.Stroke) bool {
	ed := i.ed
	if !s.Virtual {
		ed.UI().SetErrorMessage("")
	}
	if fixed, altGr := key.FixAltGr(s); altGr && fixed.IsPrintable() {
		s = fixed
	}
	if next := i.next; next != nil {
		i.next = nil
		next(s)
		return true
	}

	var err error
	switch {
	case is(s, key.Special(key.KeyEscape), key.Ctrl('c'), key.Ctrl('[')):
		err = i.finish()
	case is(s, key.Special(key.KeyEnter), key.Ctrl('j'), key.Ctrl('m')):
		err = i.newline()
	case is(s, key.Special(key.KeyBackspace), key.Ctrl('h')):
		err = i.backspace()
	case is(s, key.Special(key.KeyDelete)):
		err = i.deleteUnder()
	case is(s, key.Special(key.KeyTab), key.Ctrl('i')):
		err = i.tab()
	case is(s, key.Ctrl('w')):
		err = i.deleteBefore(wordStart)
	case is(s, key.Ctrl('u')):
		err = i.deleteBefore(lineStart)
	case is(s, key.Ctrl('r')):
		i.next = i.insertRegister
	case is(s, key.Ctrl('v')):
		i.next = i.insertLiteral
	case s.Key.IsArrowKey() || s.Key == key.KeyHome || s.Key == key.KeyEnd:
		i.move(s.Key)
	case s.IsPrintable():
		err = operator.InsertText(ed, string(s.Rune))
	default:
		return false
	}
	if err != nil {
		ed.Logger().Debug("insert failed", "key", s.String(), "error", err)
		ed.UI().SetErrorMessage(vim.Message(err))
	}
	return true
}

func is(s key.Stroke, candidates ...key.Stroke) bool {
	for _, c := range candidates {
		if s.Code() == c.Code() {
			return true
		}
	}
	return false
}

// finish records the insertion, repeats it for a count and returns to
// normal mode.
func (i *Insert) finish() error {
	ed := i.ed
	c := ed.Content()
	pos := ed.Position()
	text := ""
	if pos > i.start {
		text = c.Text(i.start, pos-i.start)
	}

	in := operator.NewInsertion(i.hint, text)
	err := in.Repeat(ed, vim.Count(i.hint.Count)-1)
	regs := ed.Registers()
	regs.SetLastInsertion(in, text)
	if i.hint.Repetition != nil || text != "" {
		regs.SetLastEdit(in)
	}
	ed.Cursor().SetMark(platform.MarkLastEdit, ed.Position())
	operator.LeaveInsert(ed)
	if merr := ed.ChangeMode(vim.ModeNormal); err == nil {
		err = merr
	}
	return err
}

func (i *Insert) newline() error {
	ed := i.ed
	c := ed.Content()
	text := ed.Configuration().NewLine()
	if v, _ := ed.Configuration().Get("autoindent"); v == "true" {
		text += vim.Indentation(vim.LineText(c, c.LineInformationOfOffset(ed.Position())))
	}
	return operator.InsertText(ed, text)
}

func (i *Insert) tab() error {
	ed := i.ed
	cfg := ed.Configuration()
	if !cfg.ExpandTab() {
		return operator.InsertText(ed, "\t")
	}
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	ts := max(cfg.TabStop(), 1)
	col := platform.DisplayWidth(c.Text(line.Begin, pos-line.Begin), ts)
	return operator.InsertText(ed, strings.Repeat(" ", ts-col%ts))
}

// backspace deletes the character before the cursor, joining lines at the
// start of a line.
func (i *Insert) backspace() error {
	ed := i.ed
	c := ed.Content()
	pos := ed.Position()
	if pos == 0 {
		return nil
	}
	from := vim.PrevOffset(c, pos)
	if line := c.LineInformationOfOffset(pos); pos == line.Begin && line.Number > 0 {
		from = c.LineInformation(line.Number - 1).End()
	}
	return i.remove(from, pos)
}

func (i *Insert) deleteUnder() error {
	ed := i.ed
	c := ed.Content()
	pos := ed.Position()
	if pos >= c.TextLength() {
		return nil
	}
	line := c.LineInformationOfOffset(pos)
	to := vim.NextOffset(c, pos)
	if pos == line.End() {
		to = vim.LineEndWithTerminator(c, line)
	}
	return vim.Change(ed, func() error {
		return c.Replace(pos, to-pos, "")
	})
}

// deleteBefore deletes from the offset bound returns to the cursor. At the
// start of a line it joins with the previous line instead.
func (i *Insert) deleteBefore(bound func(c platform.TextContent, line platform.LineInfo, pos int) int) error {
	ed := i.ed
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	if pos == line.Begin {
		return i.backspace()
	}
	return i.remove(bound(c, line, pos), pos)
}

func (i *Insert) remove(from, to int) error {
	ed := i.ed
	err := vim.Change(ed, func() error {
		return ed.Content().Replace(from, to-from, "")
	})
	if err != nil {
		return err
	}
	ed.SetPosition(from, platform.StickyOnChange)
	i.start = min(i.start, from)
	return nil
}

// wordStart skips whitespace back from pos, then one run of characters of
// the same class.
func wordStart(c platform.TextContent, line platform.LineInfo, pos int) int {
	text := c.Text(line.Begin, pos-line.Begin)
	runes := []rune(text)
	n := len(runes)
	for n > 0 && unicode.IsSpace(runes[n-1]) {
		n--
	}
	if n > 0 {
		class := vim.ClassOf(runes[n-1], false)
		for n > 0 && vim.ClassOf(runes[n-1], false) == class {
			n--
		}
	}
	return line.Begin + len(string(runes[:n]))
}

// lineStart is the first non-blank, or column zero when the cursor is
// already within the indentation.
func lineStart(c platform.TextContent, line platform.LineInfo, pos int) int {
	if first := vim.FirstNonBlank(c, line); first < pos {
		return first
	}
	return line.Begin
}

func (i *Insert) insertRegister(s key.Stroke) {
	ed := i.ed
	ch, ok := s.Character()
	if !ok {
		return
	}
	reg, err := ed.Registers().Register(ch)
	if err == nil {
		text := vim.ReplaceNewLines(reg.Content().String(), ed.Configuration().NewLine())
		err = operator.InsertText(ed, text)
	}
	if err != nil {
		ed.UI().SetErrorMessage(vim.Message(err))
	}
}

func (i *Insert) insertLiteral(s key.Stroke) {
	var text string
	switch {
	case s.IsPrintable():
		text = string(s.Rune)
	case s.Key == key.KeyTab:
		text = "\t"
	case s.Key == key.KeyRune && s.Modifiers.Has(key.ModCtrl):
		text = string(unicode.ToUpper(s.Rune) - '@')
	default:
		return
	}
	if err := operator.InsertText(i.ed, text); err != nil {
		i.ed.UI().SetErrorMessage(vim.Message(err))
	}
}

// move handles the cursor keys. Typing restarts after a move, so only the
// text typed since counts towards the insertion.
func (i *Insert) move(k key.Key) {
	ed := i.ed
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	switch k {
	case key.KeyLeft:
		if pos > line.Begin {
			pos = vim.PrevOffset(c, pos)
		}
	case key.KeyRight:
		if pos < line.End() {
			pos = vim.NextOffset(c, pos)
		}
	case key.KeyUp, key.KeyDown:
		n := line.Number - 1
		if k == key.KeyDown {
			n = line.Number + 1
		}
		if n < 0 || n >= c.LineCount() {
			return
		}
		col := utf8.RuneCountInString(c.Text(line.Begin, pos-line.Begin))
		target := c.LineInformation(n)
		runes := []rune(vim.LineText(c, target))
		pos = target.Begin + len(string(runes[:min(col, len(runes))]))
	case key.KeyHome:
		pos = line.Begin
	case key.KeyEnd:
		pos = line.End()
	}
	ed.SetPosition(pos, platform.StickyOnChange)
	i.start = pos
}
