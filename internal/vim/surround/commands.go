package surround

import (
	"unicode"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/operator"
	"github.com/dshills/modal/internal/vim/textobj"
)

// Target is a pair of delimiters to find around the cursor. Spaced
// targets take the whitespace just inside the delimiters along.
type Target struct {
	Text   textobj.DelimitedText
	Spaced bool
}

func (t Target) find(ed vim.Editor, count int) (left, right vim.TextRange, err error) {
	left, right, err = t.Text.Delimiters(ed, count)
	if err != nil || !t.Spaced {
		return left, right, err
	}
	c := ed.Content()
	for left.End < right.Start {
		ch, _ := vim.RuneAt(c, left.End)
		if !isBlank(ch) {
			break
		}
		left.End = vim.NextOffset(c, left.End)
	}
	for right.Start > left.End {
		prev := vim.PrevOffset(c, right.Start)
		ch, _ := vim.RuneAt(c, prev)
		if !isBlank(ch) {
			break
		}
		right.Start = prev
	}
	return left, right, nil
}

func isBlank(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

// replace swaps the delimiter ranges for new text and leaves the cursor on
// the left one.
func replace(ed vim.Editor, left, right vim.TextRange, d Delimiter) error {
	c := ed.Content()
	err := vim.Change(ed, func() error {
		if err := c.Replace(right.Start, right.Len(), d.Right); err != nil {
			return err
		}
		return c.Replace(left.Start, left.Len(), d.Left)
	})
	if err != nil {
		return err
	}
	end := right.Start - left.Len() + len(d.Left) + len(d.Right)
	changed(ed, left.Start, end)
	return nil
}

func changed(ed vim.Editor, start, end int) {
	cur := ed.Cursor()
	cur.SetMark(platform.MarkLastChangeStart, start)
	cur.SetMark(platform.MarkLastChangeEnd, max(start, end-1))
	ed.SetPosition(start, platform.StickyOnChange)
}

// askTag opens the delimiter prompt for a tag; build makes the command
// that runs once the tag is known.
func askTag(ed vim.Editor, build func(d Delimiter) vim.Command) error {
	return ed.ChangeMode(vim.ModeDelimiterPrompt, vim.DelimiterHint{
		Prompt: "<",
		Build: func(input string) (vim.Command, error) {
			d, err := TagDelimiter(input)
			if err != nil {
				return nil, err
			}
			return build(d), nil
		},
	})
}

// DeleteDelimiters removes the delimiters around the cursor (ds).
type DeleteDelimiters struct {
	Target Target
	count  int
}

func (d *DeleteDelimiters) Execute(ed vim.Editor) error {
	left, right, err := d.Target.find(ed, d.count)
	if err != nil {
		return err
	}
	return replace(ed, left, right, Delimiter{})
}

func (d *DeleteDelimiters) WithCount(n int) vim.Command {
	cp := *d
	cp.count = vim.MultiplyCount(d.count, n)
	return &cp
}

func (d *DeleteDelimiters) Repetition() vim.Command { return d }

// ChangeDelimiters replaces the delimiters around the cursor (cs).
type ChangeDelimiters struct {
	Target Target
	To     Delimiter
	count  int
}

func (d *ChangeDelimiters) Execute(ed vim.Editor) error {
	if d.To.Tag {
		return askTag(ed, func(to Delimiter) vim.Command {
			return &ChangeDelimiters{Target: d.Target, To: to, count: d.count}
		})
	}
	left, right, err := d.Target.find(ed, d.count)
	if err != nil {
		return err
	}
	return replace(ed, left, right, d.To)
}

func (d *ChangeDelimiters) WithCount(n int) vim.Command {
	cp := *d
	cp.count = vim.MultiplyCount(d.count, n)
	return &cp
}

// Repetition is nil while the tag is still to be asked for; the command
// built from the answer is the one "." replays.
func (d *ChangeDelimiters) Repetition() vim.Command {
	if d.To.Tag {
		return nil
	}
	return d
}

// AddDelimiters surrounds a text object (ys). Linewise objects, and any
// object when OwnLines is set, get the delimiters on lines of their own
// with the text indented between them.
type AddDelimiters struct {
	Object   vim.TextObject
	To       Delimiter
	OwnLines bool
	count    int
}

func (d *AddDelimiters) Execute(ed vim.Editor) error {
	if d.To.Tag {
		return askTag(ed, func(to Delimiter) vim.Command {
			return &AddDelimiters{Object: d.Object, To: to, OwnLines: d.OwnLines, count: d.count}
		})
	}
	r, err := vim.TextObjectWithCount(d.Object, d.count).Region(ed)
	if err != nil {
		return err
	}
	return surroundRange(ed, r, d.To, d.OwnLines)
}

func (d *AddDelimiters) WithCount(n int) vim.Command {
	cp := *d
	cp.count = vim.MultiplyCount(d.count, n)
	return &cp
}

func (d *AddDelimiters) Repetition() vim.Command {
	if d.To.Tag {
		return nil
	}
	return d
}

// SurroundSelection surrounds the visual selection (S, gS) and returns to
// normal mode. The selection is captured on the first run so that a tag
// prompt, which ends visual mode, still knows what to surround.
type SurroundSelection struct {
	To       Delimiter
	OwnLines bool

	selection *platform.Selection
}

func (s *SurroundSelection) Execute(ed vim.Editor) error {
	sel := s.selection
	if sel == nil {
		current, ok := ed.Selection().Selection()
		if !ok {
			return vim.Errorf("%w", vim.ErrNoSelection)
		}
		sel = &current
	}
	if s.To.Tag {
		return askTag(ed, func(to Delimiter) vim.Command {
			return &SurroundSelection{To: to, OwnLines: s.OwnLines, selection: sel}
		})
	}
	r := selectionRange(ed.Content(), *sel)
	if err := surroundRange(ed, r, s.To, s.OwnLines); err != nil {
		return err
	}
	if isVisual(ed.ModeName()) {
		return ed.ChangeMode(vim.ModeNormal, vim.FromVisual{})
	}
	return nil
}

func isVisual(name string) bool {
	return name == vim.ModeVisual || name == vim.ModeVisualLine || name == vim.ModeVisualBlock
}

func selectionRange(c platform.TextContent, sel platform.Selection) vim.TextRange {
	switch sel.Kind {
	case platform.SelectLines:
		return textobj.FullLines(c, vim.NewRange(sel.Anchor, sel.Head, vim.Lines))
	case platform.SelectBlock:
		return vim.NewRange(sel.Anchor, sel.Head, vim.TextRectangle)
	}
	r := vim.NewRange(sel.Anchor, sel.Head, vim.Text)
	if r.End < c.TextLength() {
		r.End = vim.NextOffset(c, r.End)
	}
	return r
}

func surroundRange(ed vim.Editor, r vim.TextRange, d Delimiter, ownLines bool) error {
	c := ed.Content()
	switch {
	case r.Type == vim.Lines || ownLines:
		first := c.LineInformationOfOffset(r.Start).Number
		last := c.LineInformationOfOffset(max(r.Start, r.End-1)).Number
		return wrapLines(ed, first, last, d)
	case r.Type == vim.TextRectangle:
		return wrapBlock(ed, r, d)
	}
	err := vim.Change(ed, func() error {
		if err := c.Replace(r.End, 0, d.Right); err != nil {
			return err
		}
		return c.Replace(r.Start, 0, d.Left)
	})
	if err != nil {
		return err
	}
	changed(ed, r.Start, r.End+len(d.Left)+len(d.Right))
	return nil
}

// wrapLines puts the delimiters on lines of their own around lines first
// through last, at the indentation of the first line, and shifts the
// non-blank lines between them one shiftwidth right.
func wrapLines(ed vim.Editor, first, last int, d Delimiter) error {
	c := ed.Content()
	cfg := ed.Configuration()
	nl := cfg.NewLine()
	indent := vim.Indentation(vim.LineText(c, c.LineInformation(first)))
	start := c.LineInformation(first).Begin
	var end int
	err := vim.Change(ed, func() error {
		for n := first; n <= last; n++ {
			line := c.LineInformation(n)
			text := vim.LineText(c, line)
			if isBlankLine(text) {
				continue
			}
			old := vim.Indentation(text)
			width := vim.IndentWidth(text, cfg.TabStop()) + cfg.ShiftWidth()
			if err := c.Replace(line.Begin, len(old), vim.MakeIndent(width, cfg)); err != nil {
				return err
			}
		}
		lastLine := c.LineInformation(last)
		if err := c.Replace(lastLine.End(), 0, nl+indent+d.Right); err != nil {
			return err
		}
		end = lastLine.End() + len(nl) + len(indent) + len(d.Right)
		if err := c.Replace(start, 0, indent+d.Left+nl); err != nil {
			return err
		}
		end += len(indent) + len(d.Left) + len(nl)
		return nil
	})
	if err != nil {
		return err
	}
	changed(ed, start, end)
	ed.SetPosition(start+len(indent), platform.StickyOnChange)
	return nil
}

func isBlankLine(text string) bool {
	for _, ch := range text {
		if !unicode.IsSpace(ch) {
			return false
		}
	}
	return true
}

// wrapBlock surrounds the part of each line inside a rectangle. Lines
// that end before the rectangle are left alone.
func wrapBlock(ed vim.Editor, r vim.TextRange, d Delimiter) error {
	c := ed.Content()
	spans := operator.BlockSpans(c, r, ed.Configuration().TabStop())
	if len(spans) == 0 {
		return nil
	}
	err := vim.Change(ed, func() error {
		for i := len(spans) - 1; i >= 0; i-- {
			sp := spans[i]
			if sp.IsEmpty() {
				continue
			}
			if err := c.Replace(sp.End, 0, d.Right); err != nil {
				return err
			}
			if err := c.Replace(sp.Start, 0, d.Left); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	ed.SetPosition(spans[0].Start, platform.StickyOnChange)
	return nil
}
