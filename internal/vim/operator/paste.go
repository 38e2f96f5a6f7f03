package operator

import (
	"strings"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// Paste inserts the active register (p, P, gp, gP). Line payloads go above
// or below the cursor line, text payloads before or after the cursor, and
// rectangular payloads are pasted as a block.
type Paste struct {
	After bool

	// CursorAfter leaves the cursor just after the pasted text instead of
	// on it.
	CursorAfter bool

	count int
}

func (p *Paste) Execute(ed vim.Editor) error {
	content := ed.Registers().Active().Content()
	if content.IsEmpty() {
		return nil
	}
	count := vim.Count(p.count)
	if content.Type == vim.TextRectangle {
		return pasteBlock(ed, content.Block, count, p.After, p.CursorAfter)
	}

	c := ed.Content()
	nl := ed.Configuration().NewLine()
	text := strings.Repeat(vim.ReplaceNewLines(content.Text, nl), count)
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)

	return vim.Change(ed, func() error {
		if content.Type == vim.Lines {
			return p.pasteLines(ed, line, text, nl)
		}
		if p.After && pos < line.End() {
			pos = vim.NextOffset(c, pos)
		}
		if err := c.Replace(pos, 0, text); err != nil {
			return err
		}
		end := pos + len(text)
		setChangeMarks(ed, pos, end)
		if p.CursorAfter {
			ed.SetPosition(end, platform.StickyOnChange)
		} else {
			ed.SetPosition(vim.PrevOffset(c, end), platform.StickyOnChange)
		}
		return nil
	})
}

func (p *Paste) pasteLines(ed vim.Editor, line platform.LineInfo, text, nl string) error {
	c := ed.Content()
	at := line.Begin
	start := at
	if p.After {
		at = vim.LineEndWithTerminator(c, line)
		start = at
		if at == c.TextLength() && line.End() == at {
			// The last line has no terminator to paste after.
			text = nl + strings.TrimSuffix(text, nl)
			start = at + len(nl)
		}
	}
	if err := c.Replace(at, 0, text); err != nil {
		return err
	}

	first := c.LineInformationOfOffset(start)
	lines := strings.Count(text, nl)
	last := c.LineInformation(first.Number + lines - 1)
	setChangeMarks(ed, start, last.End())
	if p.CursorAfter {
		ed.SetPosition(vim.LineEndWithTerminator(c, last), platform.StickyOnChange)
	} else {
		ed.SetPosition(start, platform.StickyOnChange)
	}
	return nil
}

func (p *Paste) WithCount(n int) vim.Command {
	cp := *p
	cp.count = vim.MultiplyCount(p.count, n)
	return &cp
}

func (p *Paste) Repetition() vim.Command { return p }
