package textobj

import (
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
)

// MotionObject spans from the cursor to a motion's destination.
type MotionObject struct {
	Motion vim.Motion
}

// FromMotion wraps a motion.
func FromMotion(m vim.Motion) *MotionObject {
	return &MotionObject{Motion: m}
}

// Region applies the motion's border policy and wise. A linewise motion
// covers whole lines. An exclusive motion that ends at the start of a later
// line ends at the end of the line before it instead.
func (o *MotionObject) Region(ed vim.Editor) (vim.TextRange, error) {
	m, err := vim.ResolveMotion(ed, o.Motion)
	if err != nil {
		return vim.TextRange{}, err
	}
	dest, err := m.Destination(ed)
	if err != nil {
		return vim.TextRange{}, err
	}
	motion.Remember(ed, m)

	c := ed.Content()
	pos := ed.Position()
	switch m.Wise() {
	case vim.Linewise:
		return FullLines(c, vim.NewRange(pos, dest, vim.Lines)), nil
	case vim.Blockwise:
		return vim.NewRange(pos, dest, vim.TextRectangle), nil
	}

	r := vim.NewRange(pos, dest, vim.Text)
	if m.BorderPolicy() == vim.Inclusive {
		if r.End < c.LineInformationOfOffset(r.End).End() {
			r.End = vim.NextOffset(c, r.End)
		}
		return r, nil
	}
	if r.IsEmpty() {
		return r, nil
	}
	startLine := c.LineInformationOfOffset(r.Start)
	endLine := c.LineInformationOfOffset(r.End)
	if endLine.Number > startLine.Number {
		if _, ok := motion.IsWordRight(m); ok || r.End == endLine.Begin {
			r.End = c.LineInformation(endLine.Number - 1).End()
			r.End = max(r.End, r.Start)
		}
	}
	return r, nil
}

// ContentType follows the motion's wise.
func (o *MotionObject) ContentType(platform.Configuration) vim.ContentType {
	switch o.Motion.Wise() {
	case vim.Linewise:
		return vim.Lines
	case vim.Blockwise:
		return vim.TextRectangle
	}
	return vim.Text
}

// WithCount applies the count to the motion.
func (o *MotionObject) WithCount(n int) vim.TextObject {
	return &MotionObject{Motion: vim.MotionWithCount(o.Motion, n)}
}

// FullLines widens r to whole lines, including the last line's terminator.
// A range that already ends at the start of a line keeps that end.
func FullLines(c platform.TextContent, r vim.TextRange) vim.TextRange {
	first := c.LineInformationOfOffset(r.Start)
	lastOffset := r.End
	if r.End > r.Start && c.LineInformationOfOffset(r.End).Begin == r.End {
		lastOffset = r.End - 1
	}
	last := c.LineInformationOfOffset(lastOffset)
	return vim.TextRange{Start: first.Begin, End: vim.LineEndWithTerminator(c, last), Type: vim.Lines}
}

// LinesObject is count whole lines from the cursor's line (dd, yy, >>).
type LinesObject struct {
	count int
}

// Lines returns the current-line object.
func Lines() *LinesObject {
	return &LinesObject{}
}

func (l *LinesObject) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	first := c.LineInformationOfOffset(ed.Position())
	last := c.LineInformation(min(first.Number+vim.Count(l.count)-1, vim.LastLine(c)))
	return vim.TextRange{Start: first.Begin, End: vim.LineEndWithTerminator(c, last), Type: vim.Lines}, nil
}

func (l *LinesObject) ContentType(platform.Configuration) vim.ContentType {
	return vim.Lines
}

func (l *LinesObject) WithCount(n int) vim.TextObject {
	return &LinesObject{count: vim.MultiplyCount(l.count, n)}
}

// InnerLinesObject spans count lines from the first non-blank of the
// cursor's line to the end of the last line, without the terminator. It
// is what cc and S replace when indentation is kept.
type InnerLinesObject struct {
	count int
}

// InnerLines returns the inner-line object.
func InnerLines() *InnerLinesObject {
	return &InnerLinesObject{}
}

func (l *InnerLinesObject) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	first := c.LineInformationOfOffset(ed.Position())
	last := c.LineInformation(min(first.Number+vim.Count(l.count)-1, vim.LastLine(c)))
	start := first.Begin + len(vim.Indentation(vim.LineText(c, first)))
	return vim.NewRange(start, last.End(), vim.Text), nil
}

func (l *InnerLinesObject) ContentType(platform.Configuration) vim.ContentType {
	return vim.Text
}

func (l *InnerLinesObject) WithCount(n int) vim.TextObject {
	return &InnerLinesObject{count: vim.MultiplyCount(l.count, n)}
}

// Selection is the visual selection as a text object. Operators in visual
// mode act on it.
type Selection struct{}

func (Selection) Region(ed vim.Editor) (vim.TextRange, error) {
	sel, ok := ed.Selection().Selection()
	if !ok {
		return vim.TextRange{}, vim.Errorf("%w", vim.ErrNoSelection)
	}
	c := ed.Content()
	switch sel.Kind {
	case platform.SelectLines:
		return FullLines(c, vim.NewRange(sel.Anchor, sel.Head, vim.Lines)), nil
	case platform.SelectBlock:
		return vim.NewRange(sel.Anchor, sel.Head, vim.TextRectangle), nil
	}
	r := vim.NewRange(sel.Anchor, sel.Head, vim.Text)
	if r.End < c.TextLength() {
		r.End = vim.NextOffset(c, r.End)
	}
	return r, nil
}

// ContentType cannot see the selection kind; operators use the range type.
func (Selection) ContentType(platform.Configuration) vim.ContentType {
	return vim.Text
}
