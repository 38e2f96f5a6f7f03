package vim

import (
	"strings"
)

// ContentType tells an operation how to treat a range or register payload.
type ContentType int

const (
	// Text is a character span.
	Text ContentType = iota

	// Lines is a span of whole lines. Payloads end with a line terminator.
	Lines

	// TextRectangle is a rectangular block, one segment per line.
	TextRectangle
)

// String returns the content type name.
func (c ContentType) String() string {
	switch c {
	case Text:
		return "text"
	case Lines:
		return "lines"
	case TextRectangle:
		return "block"
	default:
		return "unknown"
	}
}

// TextRange is an immutable span of the buffer. Start never exceeds End.
// A zero-width range at the cursor means "nothing matched".
type TextRange struct {
	Start int
	End   int
	Type  ContentType
}

// NewRange builds a range from two offsets in any order.
func NewRange(a, b int, t ContentType) TextRange {
	if a > b {
		a, b = b, a
	}
	return TextRange{Start: a, End: b, Type: t}
}

// EmptyRange is the zero-width range at offset.
func EmptyRange(offset int) TextRange {
	return TextRange{Start: offset, End: offset, Type: Text}
}

// Len returns the number of bytes spanned.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// IsEmpty reports a zero-width range.
func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Content is a register payload.
type Content struct {
	Type ContentType

	// Text holds Text and Lines payloads.
	Text string

	// Block holds TextRectangle payloads, one segment per line. Segments
	// may differ in length.
	Block []string
}

// TextOf returns a character-span payload.
func TextOf(s string) Content {
	return Content{Type: Text, Text: s}
}

// LinesOf returns a line-span payload, adding the final terminator if s
// lacks one.
func LinesOf(s string) Content {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return Content{Type: Lines, Text: s}
}

// BlockOf returns a rectangular payload.
func BlockOf(segments []string) Content {
	return Content{Type: TextRectangle, Block: append([]string(nil), segments...)}
}

// IsEmpty reports a payload with no text.
func (c Content) IsEmpty() bool {
	if c.Type == TextRectangle {
		return len(c.Block) == 0
	}
	return c.Text == ""
}

// String returns the payload as plain text. Block segments are joined by
// newlines.
func (c Content) String() string {
	if c.Type == TextRectangle {
		return strings.Join(c.Block, "\n")
	}
	return c.Text
}

// Append concatenates other onto c following Vim's rules for appending to
// a named register: a line payload on either side makes the result lines.
func (c Content) Append(other Content) Content {
	if c.IsEmpty() {
		return other
	}
	switch {
	case c.Type == TextRectangle || other.Type == TextRectangle:
		return BlockOf(append(strings.Split(c.String(), "\n"), strings.Split(other.String(), "\n")...))
	case c.Type == Lines || other.Type == Lines:
		return LinesOf(LinesOf(c.Text).Text + other.Text)
	}
	return TextOf(c.Text + other.Text)
}

// ReplaceNewLines normalises every line terminator in s to nl.
func ReplaceNewLines(s, nl string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if nl != "\n" {
		s = strings.ReplaceAll(s, "\n", nl)
	}
	return s
}
