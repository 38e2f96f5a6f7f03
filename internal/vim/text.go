package vim

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/platform"
)

// RuneAt decodes the character at offset. It returns utf8.RuneError and 0
// at the end of the buffer.
func RuneAt(c platform.TextContent, offset int) (rune, int) {
	if offset < 0 || offset >= c.TextLength() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.Text(offset, utf8.UTFMax))
}

// NextOffset returns the offset of the character after the one at offset.
func NextOffset(c platform.TextContent, offset int) int {
	_, size := RuneAt(c, offset)
	if size == 0 {
		return c.TextLength()
	}
	return offset + size
}

// PrevOffset returns the offset of the character before offset.
func PrevOffset(c platform.TextContent, offset int) int {
	if offset <= 0 {
		return 0
	}
	start := max(0, offset-utf8.UTFMax)
	_, size := utf8.DecodeLastRuneInString(c.Text(start, offset-start))
	if size == 0 {
		size = 1
	}
	return offset - size
}

// LineText returns the text of a line without its terminator.
func LineText(c platform.TextContent, line platform.LineInfo) string {
	return c.Text(line.Begin, line.Length)
}

// LastCharOffset returns the offset of the last character of a line, or
// its begin when the line is empty.
func LastCharOffset(c platform.TextContent, line platform.LineInfo) int {
	if line.Length == 0 {
		return line.Begin
	}
	return PrevOffset(c, line.End())
}

// LineEndWithTerminator returns the offset of the next line's begin, or
// the end of the buffer for the last line.
func LineEndWithTerminator(c platform.TextContent, line platform.LineInfo) int {
	if line.Number+1 >= c.LineCount() {
		return c.TextLength()
	}
	return c.LineInformation(line.Number + 1).Begin
}

// IsBlankLine reports whether a line holds only whitespace.
func IsBlankLine(c platform.TextContent, line platform.LineInfo) bool {
	return strings.TrimSpace(LineText(c, line)) == ""
}

// FirstNonBlank returns the offset of the first non-whitespace character of
// a line, or its last character when the line is blank.
func FirstNonBlank(c platform.TextContent, line platform.LineInfo) int {
	text := LineText(c, line)
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == "" {
		return LastCharOffset(c, line)
	}
	return line.Begin + len(text) - len(trimmed)
}

// Indentation returns the leading whitespace of s.
func Indentation(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// IndentWidth returns the display width of the leading whitespace of s.
func IndentWidth(s string, tabstop int) int {
	return platform.DisplayWidth(Indentation(s), tabstop)
}

// MakeIndent builds indentation of the given width honouring expandtab.
func MakeIndent(width int, cfg platform.Configuration) string {
	if width <= 0 {
		return ""
	}
	if cfg.ExpandTab() {
		return strings.Repeat(" ", width)
	}
	ts := cfg.TabStop()
	return strings.Repeat("\t", width/ts) + strings.Repeat(" ", width%ts)
}

// CharClass groups characters for word motions: whitespace, punctuation
// and keyword characters form separate words.
type CharClass int

const (
	ClassBlank CharClass = iota
	ClassPunctuation
	ClassKeyword
)

// ClassOf returns the class of r. With bigWord set every non-blank is the
// same class, as for W, B and E.
func ClassOf(r rune, bigWord bool) CharClass {
	switch {
	case unicode.IsSpace(r):
		return ClassBlank
	case bigWord:
		return ClassKeyword
	case IsKeyword(r):
		return ClassKeyword
	}
	return ClassPunctuation
}

// IsKeyword reports whether r belongs to Vim's default iskeyword set.
func IsKeyword(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ClampPosition keeps an offset inside the buffer.
func ClampPosition(c platform.TextContent, offset int) int {
	return max(0, min(offset, c.TextLength()))
}

// LastLine returns the number of the last line holding text. A buffer that
// ends with a line terminator has no further line after it.
func LastLine(c platform.TextContent) int {
	last := c.LineCount() - 1
	if last > 0 && c.LineInformation(last).Begin == c.TextLength() {
		return last - 1
	}
	return last
}

// IsSpaceAt reports whether the character at offset is whitespace,
// including line terminators. The end of the buffer counts as space.
func IsSpaceAt(c platform.TextContent, offset int) bool {
	r, size := RuneAt(c, offset)
	return size == 0 || unicode.IsSpace(r)
}
