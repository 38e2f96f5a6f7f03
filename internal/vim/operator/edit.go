package operator

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// lineSpan returns the first and last line numbers touched by r.
func lineSpan(c platform.TextContent, r vim.TextRange) (int, int) {
	first := c.LineInformationOfOffset(r.Start).Number
	end := r.End
	if r.End > r.Start && r.Type != vim.TextRectangle && c.LineInformationOfOffset(r.End).Begin == r.End {
		end = r.End - 1
	}
	return first, c.LineInformationOfOffset(end).Number
}

// Shift changes the indentation of every line of an object by shiftwidth
// (>, <). Empty lines are not indented.
type Shift struct {
	Left bool
}

func (s Shift) Apply(ed vim.Editor, obj vim.TextObject) error {
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	c := ed.Content()
	cfg := ed.Configuration()
	first, last := lineSpan(c, r)
	return vim.Change(ed, func() error {
		for n := first; n <= last; n++ {
			line := c.LineInformation(n)
			text := vim.LineText(c, line)
			if text == "" {
				continue
			}
			indent := vim.Indentation(text)
			width := vim.IndentWidth(text, cfg.TabStop())
			if s.Left {
				width = max(0, width-cfg.ShiftWidth())
			} else {
				width += cfg.ShiftWidth()
			}
			if err := c.Replace(line.Begin, len(indent), vim.MakeIndent(width, cfg)); err != nil {
				return err
			}
		}
		setChangeMarks(ed, c.LineInformation(first).Begin, c.LineInformation(last).End())
		ed.SetPosition(vim.FirstNonBlank(c, c.LineInformation(first)), platform.StickyOnChange)
		return nil
	})
}

func (s Shift) Repetition() vim.TextOperation { return s }

// CaseKind selects a case conversion.
type CaseKind int

const (
	ToggleCase CaseKind = iota
	LowerCase
	UpperCase
	Rot13
)

// Case converts the case of an object (g~, gu, gU, g?).
type Case struct {
	Kind CaseKind
}

func (o Case) convert(s string) string {
	switch o.Kind {
	case LowerCase:
		return cases.Lower(language.Und).String(s)
	case UpperCase:
		return cases.Upper(language.Und).String(s)
	case Rot13:
		return strings.Map(rot13, s)
	}
	return strings.Map(toggle, s)
}

func toggle(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}

func rot13(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+13)%26
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+13)%26
	}
	return r
}

func (o Case) Apply(ed vim.Editor, obj vim.TextObject) error {
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	c := ed.Content()
	spans := []span{{r.Start, r.End}}
	if r.Type == vim.TextRectangle {
		spans = blockSpans(c, r, ed.Configuration().TabStop())
	}
	return vim.Change(ed, func() error {
		for i := len(spans) - 1; i >= 0; i-- {
			s := spans[i]
			text := c.Text(s.start, s.end-s.start)
			if converted := o.convert(text); converted != text {
				if err := c.Replace(s.start, len(text), converted); err != nil {
					return err
				}
			}
		}
		setChangeMarks(ed, r.Start, r.End)
		ed.SetPosition(r.Start, platform.StickyOnChange)
		return nil
	})
}

func (o Case) Repetition() vim.TextOperation { return o }

// Join joins the lines of an object (visual J, gJ). A single line is
// joined with the next one.
type Join struct {
	Spaces bool
}

func (j Join) Apply(ed vim.Editor, obj vim.TextObject) error {
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	first, last := lineSpan(ed.Content(), r)
	return joinLines(ed, first, max(last, first+1), j.Spaces)
}

func (j Join) Repetition() vim.TextOperation { return j }

// JoinCommand joins count lines starting at the cursor line (J, gJ). A
// count below two joins two lines.
type JoinCommand struct {
	Spaces bool
	count  int
}

func (j *JoinCommand) Execute(ed vim.Editor) error {
	first := ed.Content().LineInformationOfOffset(ed.Position()).Number
	return joinLines(ed, first, first+max(vim.Count(j.count), 2)-1, j.Spaces)
}

func (j *JoinCommand) WithCount(n int) vim.Command {
	cp := *j
	cp.count = vim.MultiplyCount(j.count, n)
	return &cp
}

func (j *JoinCommand) Repetition() vim.Command { return j }

// joinLines merges lines first through last into one. With spaces the
// leading whitespace of each joined line becomes a single space, which is
// left out after trailing whitespace and before ')'.
func joinLines(ed vim.Editor, first, last int, spaces bool) error {
	c := ed.Content()
	last = min(last, vim.LastLine(c))
	if last <= first {
		return vim.Errorf("%w: no line to join", vim.ErrNoMatch)
	}
	return vim.Change(ed, func() error {
		joint := 0
		for n := first; n < last; n++ {
			cur := c.LineInformation(first)
			next := c.LineInformation(first + 1)
			curText := vim.LineText(c, cur)
			nextText := vim.LineText(c, next)
			cut, sep := next.Begin, ""
			if spaces {
				trimmed := strings.TrimLeft(nextText, " \t")
				cut += len(nextText) - len(trimmed)
				if trimmed != "" && curText != "" && !strings.HasPrefix(trimmed, ")") &&
					!strings.HasSuffix(curText, " ") && !strings.HasSuffix(curText, "\t") {
					sep = " "
				}
			}
			if err := c.Replace(cur.End(), cut-cur.End(), sep); err != nil {
				return err
			}
			joint = cur.End()
		}
		setChangeMarks(ed, c.LineInformation(first).Begin, joint)
		ed.SetPosition(joint, platform.StickyOnChange)
		return nil
	})
}

// ReplaceChar replaces count characters under and after the cursor with
// Char (r). Replacing with a line break inserts one break for all of them.
type ReplaceChar struct {
	Char  rune
	count int
}

func (o *ReplaceChar) Execute(ed vim.Editor) error {
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	count := vim.Count(o.count)
	end := pos
	for i := 0; i < count; i++ {
		if end >= line.End() {
			return vim.Errorf("%w: not enough characters", vim.ErrNoMatch)
		}
		end = vim.NextOffset(c, end)
	}
	return vim.Change(ed, func() error {
		if o.Char == '\n' || o.Char == '\r' {
			nl := ed.Configuration().NewLine()
			if err := c.Replace(pos, end-pos, nl); err != nil {
				return err
			}
			setChangeMarks(ed, pos, pos+len(nl))
			ed.SetPosition(pos+len(nl), platform.StickyOnChange)
			return nil
		}
		text := strings.Repeat(string(o.Char), count)
		if err := c.Replace(pos, end-pos, text); err != nil {
			return err
		}
		setChangeMarks(ed, pos, pos+len(text))
		ed.SetPosition(vim.PrevOffset(c, pos+len(text)), platform.StickyOnChange)
		return nil
	})
}

func (o *ReplaceChar) WithCount(n int) vim.Command {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}

func (o *ReplaceChar) Repetition() vim.Command { return o }

// ToggleCaseChar toggles the case of count characters and moves past them
// (~). It stops at the end of the line.
type ToggleCaseChar struct {
	count int
}

func (o *ToggleCaseChar) Execute(ed vim.Editor) error {
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	end := pos
	for i := vim.Count(o.count); i > 0 && end < line.End(); i-- {
		end = vim.NextOffset(c, end)
	}
	if end == pos {
		return nil
	}
	return vim.Change(ed, func() error {
		text := c.Text(pos, end-pos)
		toggled := strings.Map(toggle, text)
		if err := c.Replace(pos, len(text), toggled); err != nil {
			return err
		}
		setChangeMarks(ed, pos, pos+len(toggled))
		ed.SetPosition(pos+len(toggled), platform.StickyOnChange)
		return nil
	})
}

func (o *ToggleCaseChar) WithCount(n int) vim.Command {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}

func (o *ToggleCaseChar) Repetition() vim.Command { return o }

// Undo reverts count changes (u).
func Undo() vim.Command {
	return vim.NewCountedFunc(func(ed vim.Editor, count int) error {
		for i := vim.Count(count); i > 0; i-- {
			if err := ed.History().Undo(); err != nil {
				return vim.Errorf("%w", err)
			}
		}
		return nil
	}, false)
}

// Redo reapplies count undone changes (<C-r>).
func Redo() vim.Command {
	return vim.NewCountedFunc(func(ed vim.Editor, count int) error {
		for i := vim.Count(count); i > 0; i-- {
			if err := ed.History().Redo(); err != nil {
				return vim.Errorf("%w", err)
			}
		}
		return nil
	}, false)
}
