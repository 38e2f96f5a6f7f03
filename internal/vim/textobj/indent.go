package textobj

import (
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// Indent selects the block of lines indented at least as deep as the
// cursor's line (ii, ai, aI). IncludeFirst adds the less indented line
// above the block, IncludeLast the one below. A count widens the object to
// the count-th enclosing indent level.
type Indent struct {
	IncludeFirst bool
	IncludeLast  bool
	count        int
}

// Region resolves the block. On a blank line the deeper of the nearest
// non-blank lines above and below decides the level, the one above on a
// tie.
func (o *Indent) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	tabstop := ed.Configuration().TabStop()
	count := vim.Count(o.count)
	last := vim.LastLine(c)

	blank := func(n int) bool { return vim.IsBlankLine(c, c.LineInformation(n)) }
	depth := func(n int) int { return vim.IndentWidth(vim.LineText(c, c.LineInformation(n)), tabstop) }

	cursor := c.LineInformationOfOffset(ed.Position()).Number
	if blank(cursor) {
		above, below := cursor, cursor
		for n := cursor - 1; n >= 0; n-- {
			if !blank(n) {
				above = n
				break
			}
		}
		for n := cursor + 1; n <= last; n++ {
			if !blank(n) {
				below = n
				break
			}
		}
		if depth(above) >= depth(below) {
			cursor = above
		} else {
			cursor = below
		}
	}

	level := depth(cursor)
	first, lastLine := 0, last
	prev := cursor
	for n := cursor - 1; n >= 0; n-- {
		if !blank(n) && depth(n) < level {
			if count == 1 {
				first = prev
				if o.IncludeFirst {
					first = n
				}
				break
			}
			level = depth(n)
			count--
		}
		prev = n
	}

	prev = cursor
	for n := cursor + 1; n <= last; n++ {
		if !blank(n) && depth(n) < level {
			lastLine = prev
			if o.IncludeLast {
				lastLine = n
			}
			break
		}
		prev = n
	}

	return vim.TextRange{
		Start: c.LineInformation(first).Begin,
		End:   vim.LineEndWithTerminator(c, c.LineInformation(lastLine)),
		Type:  vim.Lines,
	}, nil
}

func (o *Indent) ContentType(platform.Configuration) vim.ContentType {
	return vim.Lines
}

func (o *Indent) WithCount(n int) vim.TextObject {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}
