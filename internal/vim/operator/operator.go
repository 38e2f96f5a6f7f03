package operator

import (
	"strings"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/textobj"
)

// Command applies an operation to a text object. The count goes to the
// object, so "3dw" deletes three words.
type Command struct {
	Op     vim.TextOperation
	Object vim.TextObject
	count  int
	repeat bool
}

// New binds an operation to an object.
func New(op vim.TextOperation, obj vim.TextObject) *Command {
	return &Command{Op: op, Object: obj}
}

func (c *Command) Execute(ed vim.Editor) error {
	op := c.Op
	if ch, ok := op.(Change); ok && !ch.replay {
		ch.source = c
		op = ch
	}
	return op.Apply(ed, vim.TextObjectWithCount(c.Object, c.count))
}

// WithCount multiplies the bound count. A repetition takes the new count
// instead, as "3." does.
func (c *Command) WithCount(n int) vim.Command {
	cp := *c
	if c.repeat && n > vim.NoCount {
		cp.count = n
	} else {
		cp.count = vim.MultiplyCount(c.count, n)
	}
	return &cp
}

func (c *Command) Repetition() vim.Command {
	op := c.Op.Repetition()
	if op == nil {
		return nil
	}
	return &Command{Op: op, Object: c.Object, count: c.count, repeat: true}
}

// resolve computes the object's range. Line ranges are widened to whole
// lines.
func resolve(ed vim.Editor, obj vim.TextObject) (vim.TextRange, error) {
	r, err := obj.Region(ed)
	if err != nil {
		return vim.TextRange{}, err
	}
	if r.Type == vim.Lines {
		r = textobj.FullLines(ed.Content(), r)
	}
	return r, nil
}

// contentOf captures the text of r as a register payload.
func contentOf(ed vim.Editor, r vim.TextRange) vim.Content {
	c := ed.Content()
	switch r.Type {
	case vim.Lines:
		return vim.LinesOf(c.Text(r.Start, r.Len()))
	case vim.TextRectangle:
		spans := blockSpans(c, r, ed.Configuration().TabStop())
		segments := make([]string, len(spans))
		for i, s := range spans {
			segments[i] = c.Text(s.start, s.end-s.start)
		}
		return vim.BlockOf(segments)
	}
	return vim.TextOf(c.Text(r.Start, r.Len()))
}

func setChangeMarks(ed vim.Editor, start, end int) {
	ed.Cursor().SetMark(platform.MarkLastChangeStart, start)
	ed.Cursor().SetMark(platform.MarkLastChangeEnd, end)
}

// removeRange deletes r from the buffer and returns where the text was.
// Deleting the last line of a buffer without a final terminator takes the
// terminator before it instead.
func removeRange(ed vim.Editor, r vim.TextRange) (int, error) {
	c := ed.Content()
	if r.Type == vim.TextRectangle {
		spans := blockSpans(c, r, ed.Configuration().TabStop())
		for i := len(spans) - 1; i >= 0; i-- {
			s := spans[i]
			if err := c.Replace(s.start, s.end-s.start, ""); err != nil {
				return 0, err
			}
		}
		if len(spans) == 0 {
			return r.Start, nil
		}
		return spans[0].start, nil
	}
	start := r.Start
	if r.Type == vim.Lines && r.End == c.TextLength() && start > 0 && !endsWithTerminator(c) {
		start = c.LineInformationOfOffset(start - 1).End()
	}
	if err := c.Replace(start, r.End-start, ""); err != nil {
		return 0, err
	}
	return start, nil
}

func endsWithTerminator(c platform.TextContent) bool {
	n := c.TextLength()
	return n > 0 && strings.ContainsAny(c.Text(n-1, 1), "\r\n")
}

// placeAfterLines puts the cursor on the first non-blank of the line at
// offset, or of the last line when offset is past it.
func placeAfterLines(ed vim.Editor, offset int) {
	c := ed.Content()
	offset = min(offset, c.TextLength())
	line := c.LineInformationOfOffset(offset)
	if line.Number > vim.LastLine(c) {
		line = c.LineInformation(vim.LastLine(c))
	}
	ed.SetPosition(vim.FirstNonBlank(c, line), platform.StickyOnChange)
}

// Delete removes the text of an object into the active register (d).
type Delete struct{}

func (Delete) Apply(ed vim.Editor, obj vim.TextObject) error {
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	if r.IsEmpty() {
		return nil
	}
	if err := ed.Registers().Deleted(contentOf(ed, r)); err != nil {
		return err
	}
	return vim.Change(ed, func() error {
		at, err := removeRange(ed, r)
		if err != nil {
			return err
		}
		setChangeMarks(ed, at, at)
		if r.Type == vim.Lines {
			placeAfterLines(ed, at)
		} else {
			ed.SetPosition(at, platform.StickyOnChange)
		}
		return nil
	})
}

func (d Delete) Repetition() vim.TextOperation { return d }

// Yank copies the text of an object into the active register (y).
type Yank struct{}

func (Yank) Apply(ed vim.Editor, obj vim.TextObject) error {
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	if err := ed.Registers().Yanked(contentOf(ed, r)); err != nil {
		return err
	}
	setChangeMarks(ed, r.Start, r.End)
	if r.Type != vim.Lines {
		ed.SetPosition(r.Start, platform.StickyOnChange)
		return nil
	}
	c := ed.Content()
	cur := c.LineInformationOfOffset(ed.Position())
	if first := c.LineInformationOfOffset(r.Start); first.Number < cur.Number {
		ts := ed.Configuration().TabStop()
		col := platform.VisualColumn(vim.LineText(c, cur), ed.Position()-cur.Begin, ts)
		idx, _ := platform.ByteIndexForColumn(vim.LineText(c, first), col, ts)
		ed.SetPosition(first.Begin+idx, platform.StickyNever)
	}
	return nil
}

func (Yank) Repetition() vim.TextOperation { return nil }

// Change deletes the text of an object and enters insert mode (c). On line
// ranges the last line is kept, indented when autoindent is set. "cw" acts
// like "ce" when the cursor is on a non-blank.
type Change struct {
	// replay suppresses the mode switch when "." repeats the change.
	replay bool

	// source is the command applying the change. Its uncounted object
	// goes into the repetition so that a count given to "." replaces the
	// original one.
	source *Command
}

func (o Change) Apply(ed vim.Editor, obj vim.TextObject) error {
	obj = changeObject(ed, obj)
	r, err := resolve(ed, obj)
	if err != nil {
		return err
	}
	c := ed.Content()
	err = vim.Change(ed, func() error {
		if r.IsEmpty() {
			ed.SetPosition(r.Start, platform.StickyOnChange)
			return nil
		}
		if err := ed.Registers().Deleted(contentOf(ed, r)); err != nil {
			return err
		}
		if r.Type != vim.Lines {
			at, err := removeRange(ed, r)
			if err != nil {
				return err
			}
			setChangeMarks(ed, at, at)
			ed.SetPosition(at, platform.StickyOnChange)
			return nil
		}

		first := c.LineInformationOfOffset(r.Start)
		last := c.LineInformationOfOffset(r.End - 1)
		indent := ""
		if autoIndent(ed.Configuration()) {
			indent = vim.Indentation(vim.LineText(c, first))
		}
		if err := c.Replace(first.Begin, last.End()-first.Begin, indent); err != nil {
			return err
		}
		setChangeMarks(ed, first.Begin, first.Begin)
		ed.SetPosition(first.Begin+len(indent), platform.StickyOnChange)
		return nil
	})
	if err != nil || o.replay {
		return err
	}
	rep := &Command{Op: Change{replay: true}, Object: obj, repeat: true}
	if o.source != nil {
		rep.Object, rep.count = o.source.Object, o.source.count
	}
	return ed.ChangeMode(vim.ModeInsert, vim.InsertHint{Repetition: rep})
}

// Repetition is nil: insert mode stores the change together with the
// inserted text when it is left.
func (Change) Repetition() vim.TextOperation { return nil }

// changeObject turns "cw" into "ce" unless the cursor is on whitespace.
func changeObject(ed vim.Editor, obj vim.TextObject) vim.TextObject {
	mo, ok := obj.(*textobj.MotionObject)
	if !ok {
		return obj
	}
	if _, ok := motion.IsWordRight(mo.Motion); !ok || vim.IsSpaceAt(ed.Content(), ed.Position()) {
		return obj
	}
	return textobj.FromMotion(motion.WordEndFor(mo.Motion))
}

func autoIndent(cfg platform.Configuration) bool {
	v, _ := cfg.Get("autoindent")
	return v == "true"
}
