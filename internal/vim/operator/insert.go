package operator

import (
	"strings"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// InsertAt says where an insert command puts the cursor before entering
// insert mode.
type InsertAt int

const (
	InsertHere       InsertAt = iota // i
	InsertAfter                      // a
	InsertLineStart                  // I
	InsertColumnZero                 // gI
	InsertLineEnd                    // A
	OpenBelow                        // o
	OpenAbove                        // O
)

// EnterInsert moves the cursor, opening a line for o and O, and enters
// insert mode.
type EnterInsert struct {
	At     InsertAt
	count  int
	replay bool
}

func (e *EnterInsert) Execute(ed vim.Editor) error {
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)

	switch e.At {
	case InsertAfter:
		if pos < line.End() {
			pos = vim.NextOffset(c, pos)
		}
	case InsertLineStart:
		pos = line.Begin + len(vim.Indentation(vim.LineText(c, line)))
	case InsertColumnZero:
		pos = line.Begin
	case InsertLineEnd:
		pos = line.End()
	case OpenBelow, OpenAbove:
		var err error
		if pos, err = openLine(ed, line, e.At == OpenAbove); err != nil {
			return err
		}
	}
	ed.SetPosition(pos, platform.StickyOnChange)
	if e.replay {
		return nil
	}
	return ed.ChangeMode(vim.ModeInsert, vim.InsertHint{
		Repetition:  &EnterInsert{At: e.At, replay: true},
		Count:       e.count,
		EachCommand: e.At == OpenBelow || e.At == OpenAbove,
	})
}

// openLine inserts an empty line below or above line, indented like it
// when autoindent is set, and returns the offset to insert at.
func openLine(ed vim.Editor, line platform.LineInfo, above bool) (int, error) {
	c := ed.Content()
	nl := ed.Configuration().NewLine()
	indent := ""
	if autoIndent(ed.Configuration()) {
		indent = vim.Indentation(vim.LineText(c, line))
	}
	var at int
	err := vim.Change(ed, func() error {
		if above {
			at = line.Begin + len(indent)
			return c.Replace(line.Begin, 0, indent+nl)
		}
		at = line.End() + len(nl) + len(indent)
		return c.Replace(line.End(), 0, nl+indent)
	})
	return at, err
}

func (e *EnterInsert) WithCount(n int) vim.Command {
	cp := *e
	cp.count = vim.MultiplyCount(e.count, n)
	return &cp
}

// Repetition is nil: insert mode stores the insertion when it is left.
func (e *EnterInsert) Repetition() vim.Command { return nil }

// Insertion replays an insert session: the command that entered insert
// mode followed by the typed text, as "." does after leaving insert mode.
type Insertion struct {
	Enter       vim.Command
	Text        string
	EachCommand bool
	count       int
}

// NewInsertion records an insert session entered through hint.
func NewInsertion(hint vim.InsertHint, text string) *Insertion {
	return &Insertion{Enter: hint.Repetition, Text: text, EachCommand: hint.EachCommand, count: hint.Count}
}

func (in *Insertion) Execute(ed vim.Editor) error {
	return vim.Change(ed, func() error {
		if in.Enter != nil {
			if err := in.Enter.Execute(ed); err != nil {
				return err
			}
		}
		if err := InsertText(ed, in.Text); err != nil {
			return err
		}
		if err := in.Repeat(ed, vim.Count(in.count)-1); err != nil {
			return err
		}
		LeaveInsert(ed)
		return nil
	})
}

// Repeat inserts the text n more times at the cursor. With EachCommand the
// entering command runs again before each copy.
func (in *Insertion) Repeat(ed vim.Editor, n int) error {
	if n <= 0 {
		return nil
	}
	if !in.EachCommand || in.Enter == nil {
		return InsertText(ed, strings.Repeat(in.Text, n))
	}
	for ; n > 0; n-- {
		if err := in.Enter.Execute(ed); err != nil {
			return err
		}
		if err := InsertText(ed, in.Text); err != nil {
			return err
		}
	}
	return nil
}

// WithCount replaces the count. A change passes it to its text object
// instead, so "3." after "cwfoo" changes three words.
func (in *Insertion) WithCount(n int) vim.Command {
	cp := *in
	if n <= vim.NoCount {
		return &cp
	}
	if counted, ok := in.Enter.(*Command); ok {
		cp.Enter = counted.WithCount(n)
		return &cp
	}
	cp.count = n
	return &cp
}

func (in *Insertion) Repetition() vim.Command { return in }

// InsertText inserts text at the cursor and leaves the cursor after it.
func InsertText(ed vim.Editor, text string) error {
	if text == "" {
		return nil
	}
	pos := ed.Position()
	if err := ed.Content().Replace(pos, 0, text); err != nil {
		return err
	}
	ed.SetPosition(pos+len(text), platform.StickyOnChange)
	return nil
}

// LeaveInsert steps the cursor back onto the last inserted character, as
// leaving insert mode does.
func LeaveInsert(ed vim.Editor) {
	c := ed.Content()
	pos := ed.Position()
	if line := c.LineInformationOfOffset(pos); pos > line.Begin {
		ed.SetPosition(vim.PrevOffset(c, pos), platform.StickyOnChange)
	}
}
