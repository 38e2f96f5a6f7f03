package motion

import (
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// Left moves count characters left without leaving the line (h).
func Left() vim.Motion {
	return newMotion("left", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		line := currentLine(ed)
		pos := ed.Position()
		for ; count > 0 && pos > line.Begin; count-- {
			pos = vim.PrevOffset(c, pos)
		}
		return pos, nil
	})
}

// Right moves count characters right without leaving the line (l). The
// destination may be the line end so that "dl" removes the last character.
func Right() vim.Motion {
	return newMotion("right", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		line := currentLine(ed)
		pos := ed.Position()
		for ; count > 0 && pos < line.End(); count-- {
			pos = vim.NextOffset(c, pos)
		}
		return min(pos, line.End()), nil
	})
}

// RightAcrossLines moves right, continuing on the next line (space).
func RightAcrossLines() vim.Motion {
	return newMotion("right across lines", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		pos := ed.Position()
		for ; count > 0; count-- {
			line := c.LineInformationOfOffset(pos)
			next := vim.NextOffset(c, pos)
			switch {
			case next < line.End():
				pos = next
			case line.Number < vim.LastLine(c):
				pos = c.LineInformation(line.Number + 1).Begin
			default:
				return line.End(), nil
			}
		}
		return pos, nil
	})
}

// LeftAcrossLines moves left, continuing on the previous line (backspace).
func LeftAcrossLines() vim.Motion {
	return newMotion("left across lines", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		pos := ed.Position()
		for ; count > 0 && pos > 0; count-- {
			line := c.LineInformationOfOffset(pos)
			if pos > line.Begin {
				pos = vim.PrevOffset(c, pos)
				continue
			}
			pos = vim.LastCharOffset(c, c.LineInformation(line.Number-1))
		}
		return pos, nil
	})
}

// verticalDest moves to the sticky column of the line delta lines away.
func verticalDest(ed vim.Editor, delta int) int {
	c := ed.Content()
	from := currentLine(ed)
	target := max(0, min(from.Number+delta, vim.LastLine(c)))
	line := c.LineInformation(target)
	col := ed.Cursor().StickyColumn()
	if col < 0 {
		return line.End()
	}
	idx, _ := platform.ByteIndexForColumn(vim.LineText(c, line), col, ed.Configuration().TabStop())
	return line.Begin + idx
}

// Down moves count lines down keeping the sticky column (j).
func Down() vim.Motion {
	return newMotion("down", func(ed vim.Editor, count int) (int, error) {
		return verticalDest(ed, count), nil
	}, linewise, sticky(platform.StickyNever))
}

// Up moves count lines up keeping the sticky column (k).
func Up() vim.Motion {
	return newMotion("up", func(ed vim.Editor, count int) (int, error) {
		return verticalDest(ed, -count), nil
	}, linewise, sticky(platform.StickyNever))
}

// firstNonBlankOf returns the first non-blank of the line delta lines away.
func firstNonBlankOf(ed vim.Editor, delta int) int {
	c := ed.Content()
	target := max(0, min(currentLine(ed).Number+delta, vim.LastLine(c)))
	return vim.FirstNonBlank(c, c.LineInformation(target))
}

// DownFirstNonBlank moves to the first non-blank count lines down (+, Enter).
func DownFirstNonBlank() vim.Motion {
	return newMotion("down to first non-blank", func(ed vim.Editor, count int) (int, error) {
		return firstNonBlankOf(ed, count), nil
	}, linewise)
}

// UpFirstNonBlank moves to the first non-blank count lines up (-).
func UpFirstNonBlank() vim.Motion {
	return newMotion("up to first non-blank", func(ed vim.Editor, count int) (int, error) {
		return firstNonBlankOf(ed, -count), nil
	}, linewise)
}

// DownLessOneFirstNonBlank moves to the first non-blank count-1 lines down
// (_), which makes "d_" delete the current line.
func DownLessOneFirstNonBlank() vim.Motion {
	return newMotion("first non-blank", func(ed vim.Editor, count int) (int, error) {
		return firstNonBlankOf(ed, count-1), nil
	}, linewise)
}

// ColumnZero moves to the first character of the line (0).
func ColumnZero() vim.Motion {
	return newMotion("column zero", func(ed vim.Editor, _ int) (int, error) {
		return currentLine(ed).Begin, nil
	})
}

// LineStart moves to the first non-blank character of the line (^, Home).
func LineStart() vim.Motion {
	return newMotion("line start", func(ed vim.Editor, _ int) (int, error) {
		return vim.FirstNonBlank(ed.Content(), currentLine(ed)), nil
	})
}

// LineEnd moves to the end of the line count-1 lines down ($, End). The
// destination is the line terminator and the motion is exclusive, so the
// last character is part of an operator's range.
func LineEnd() vim.Motion {
	return newMotion("line end", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		target := min(currentLine(ed).Number+count-1, vim.LastLine(c))
		return c.LineInformation(target).End(), nil
	}, sticky(platform.StickyEndOfLine))
}

// LastNonBlank moves to the last non-blank character of the line count-1
// lines down (g_).
func LastNonBlank() vim.Motion {
	return newMotion("last non-blank", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		target := min(currentLine(ed).Number+count-1, vim.LastLine(c))
		line := c.LineInformation(target)
		pos := vim.LastCharOffset(c, line)
		for pos > line.Begin && vim.IsSpaceAt(c, pos) {
			pos = vim.PrevOffset(c, pos)
		}
		return pos, nil
	}, inclusive)
}

// Column moves to display column count (|).
func Column() vim.Motion {
	return newMotion("column", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		line := currentLine(ed)
		idx, ok := platform.ByteIndexForColumn(vim.LineText(c, line), count-1, ed.Configuration().TabStop())
		if !ok {
			return vim.LastCharOffset(c, line), nil
		}
		return line.Begin + idx, nil
	})
}

// FirstLine moves to the first non-blank of line count, or of the first
// line without a count (gg, Ctrl-Home).
func FirstLine() vim.Motion {
	return newMotion("first line", func(ed vim.Editor, count int) (int, error) {
		return gotoLine(ed, max(count, 1)), nil
	}, linewise, jump, rawCount)
}

// LastLine moves to the first non-blank of line count, or of the last line
// without a count (G).
func LastLine() vim.Motion {
	return newMotion("last line", func(ed vim.Editor, count int) (int, error) {
		if count == vim.NoCount {
			count = vim.LastLine(ed.Content()) + 1
		}
		return gotoLine(ed, count), nil
	}, linewise, jump, rawCount)
}

// gotoLine returns the first non-blank of a one-based line number.
func gotoLine(ed vim.Editor, number int) int {
	c := ed.Content()
	line := c.LineInformation(max(0, min(number-1, vim.LastLine(c))))
	return vim.FirstNonBlank(c, line)
}

// LastCharacter moves to the last character of the buffer (Ctrl-End).
func LastCharacter() vim.Motion {
	return newMotion("last character", func(ed vim.Editor, _ int) (int, error) {
		c := ed.Content()
		return vim.LastCharOffset(c, c.LineInformation(vim.LastLine(c))), nil
	}, inclusive, jump)
}
