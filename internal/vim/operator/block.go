package operator

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

type span struct {
	start, end int
}

// blockColumns returns the display columns [left, right) of the rectangle
// with corners r.Start and r.End. Both corner characters are inside it.
func blockColumns(c platform.TextContent, r vim.TextRange, tabstop int) (left, right int) {
	edges := func(offset int) (int, int) {
		line := c.LineInformationOfOffset(offset)
		text := vim.LineText(c, line)
		idx := offset - line.Begin
		from := platform.VisualColumn(text, idx, tabstop)
		if idx >= len(text) {
			return from, from + 1
		}
		return from, platform.VisualColumn(text, idx+graphemeLen(text[idx:]), tabstop)
	}
	aFrom, aTo := edges(r.Start)
	bFrom, bTo := edges(r.End)
	return min(aFrom, bFrom), max(aTo, bTo)
}

func graphemeLen(s string) int {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return len(cluster)
}

// blockSpans returns the part of each line covered by a rectangle. Lines
// shorter than the rectangle give empty spans at their end.
func blockSpans(c platform.TextContent, r vim.TextRange, tabstop int) []span {
	left, right := blockColumns(c, r, tabstop)
	first := c.LineInformationOfOffset(r.Start).Number
	last := c.LineInformationOfOffset(r.End).Number
	spans := make([]span, 0, last-first+1)
	for n := first; n <= last; n++ {
		line := c.LineInformation(n)
		text := vim.LineText(c, line)
		from, _ := platform.ByteIndexForColumn(text, left, tabstop)
		to, _ := platform.ByteIndexForColumn(text, right, tabstop)
		spans = append(spans, span{start: line.Begin + from, end: line.Begin + max(from, to)})
	}
	return spans
}

// BlockSpans returns the part of each line the rectangle r covers, top
// line first.
func BlockSpans(c platform.TextContent, r vim.TextRange, tabstop int) []vim.TextRange {
	spans := blockSpans(c, r, tabstop)
	out := make([]vim.TextRange, len(spans))
	for i, sp := range spans {
		out[i] = vim.NewRange(sp.start, sp.end, vim.Text)
	}
	return out
}

// pasteBlock inserts each segment of a rectangular payload at the same
// display column on consecutive lines, starting at the cursor line. Short
// lines are padded with spaces and missing lines are appended. The count
// repeats each segment side by side.
func pasteBlock(ed vim.Editor, segments []string, count int, after, cursorAfter bool) error {
	c := ed.Content()
	cfg := ed.Configuration()
	ts := cfg.TabStop()
	nl := cfg.NewLine()

	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	text := vim.LineText(c, line)
	col := platform.VisualColumn(text, pos-line.Begin, ts)
	if after && pos < line.End() {
		col = platform.VisualColumn(text, pos-line.Begin+graphemeLen(text[pos-line.Begin:]), ts)
	}

	width := 0
	for _, s := range segments {
		width = max(width, platform.DisplayWidth(s, ts))
	}

	return vim.Change(ed, func() error {
		var start, end int
		for i, seg := range segments {
			n := line.Number + i
			if n > vim.LastLine(c) {
				if err := c.Replace(c.TextLength(), 0, nl); err != nil {
					return err
				}
			}
			target := c.LineInformation(n)
			targetText := vim.LineText(c, target)
			idx, ok := platform.ByteIndexForColumn(targetText, col, ts)
			padded := seg + strings.Repeat(" ", width-platform.DisplayWidth(seg, ts))
			insert := strings.Repeat(padded, count)
			if !ok {
				// Nothing follows on this line: pad up to the column and
				// drop the padding after the last segment.
				lead := strings.Repeat(" ", max(0, col-platform.DisplayWidth(targetText, ts)))
				insert = lead + strings.Repeat(padded, count-1) + seg
				idx = len(targetText)
			}
			at := target.Begin + idx
			if err := c.Replace(at, 0, insert); err != nil {
				return err
			}
			if i == 0 {
				start = at
			}
			end = at + len(insert)
		}
		setChangeMarks(ed, start, end)
		if cursorAfter {
			ed.SetPosition(end, platform.StickyOnChange)
		} else {
			ed.SetPosition(start, platform.StickyOnChange)
		}
		return nil
	})
}
