package textobj

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
)

// Word selects words (iw, aw) or WORDs (iW, aW) on the cursor's line. Inner
// objects count runs of whitespace as words. Outer objects take the
// whitespace after each word, or the whitespace before the first one when
// the last word ends the line.
type Word struct {
	Outer bool
	Big   bool
	count int
}

func (o *Word) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	line := c.LineInformationOfOffset(ed.Position())
	text := vim.LineText(c, line)
	if text == "" {
		return vim.EmptyRange(line.Begin), nil
	}
	pos := min(ed.Position()-line.Begin, len(text)-1)
	class := func(p int) vim.CharClass {
		r, _ := utf8.DecodeRuneInString(text[p:])
		return vim.ClassOf(r, o.Big)
	}
	next := func(p int) int {
		_, size := utf8.DecodeRuneInString(text[p:])
		return p + size
	}
	prev := func(p int) int {
		_, size := utf8.DecodeLastRuneInString(text[:p])
		return p - size
	}
	runEnd := func(p int) int {
		cls := class(p)
		for p < len(text) && class(p) == cls {
			p = next(p)
		}
		return p
	}

	start := pos
	for start > 0 && class(prev(start)) == class(pos) {
		start = prev(start)
	}
	blankFirst := class(pos) == vim.ClassBlank
	end := start
	for n := vim.Count(o.count); n > 0 && end < len(text); n-- {
		blank := class(end) == vim.ClassBlank
		end = runEnd(end)
		if o.Outer && end < len(text) && (blank || class(end) == vim.ClassBlank) {
			end = runEnd(end)
		}
	}
	if o.Outer && !blankFirst && (end == len(text) || class(prev(end)) != vim.ClassBlank) {
		trimmed := strings.TrimRightFunc(text[:start], unicode.IsSpace)
		if leading := len(text[:start]) - len(trimmed); leading > 0 && trimmed != "" {
			start = len(trimmed)
		}
	}
	return vim.NewRange(line.Begin+start, line.Begin+end, vim.Text), nil
}

func (o *Word) ContentType(platform.Configuration) vim.ContentType {
	return vim.Text
}

func (o *Word) WithCount(n int) vim.TextObject {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}

// Sentence selects sentences (is, as). The outer object keeps the
// whitespace that follows each sentence.
type Sentence struct {
	Outer bool
	count int
}

func (o *Sentence) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	text := c.Text(0, c.TextLength())
	start, end := motion.SentenceBounds(text, ed.Position())
	for n := vim.Count(o.count) - 1; n > 0 && end < len(text); n-- {
		_, end = motion.SentenceBounds(text, end)
	}
	if !o.Outer {
		end = start + len(strings.TrimRightFunc(text[start:end], unicode.IsSpace))
	}
	return vim.NewRange(start, end, vim.Text), nil
}

func (o *Sentence) ContentType(platform.Configuration) vim.ContentType {
	return vim.Text
}

func (o *Sentence) WithCount(n int) vim.TextObject {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}

// Paragraph selects paragraphs (ip, ap): runs of non-blank lines or runs
// of blank lines. The outer object adds the blank lines after the
// paragraph, or before it when none follow.
type Paragraph struct {
	Outer bool
	count int
}

func (o *Paragraph) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	last := vim.LastLine(c)
	blank := func(n int) bool { return vim.IsBlankLine(c, c.LineInformation(n)) }
	runEnd := func(n int) int {
		b := blank(n)
		for n < last && blank(n+1) == b {
			n++
		}
		return n
	}

	cursor := c.LineInformationOfOffset(ed.Position()).Number
	first := cursor
	for first > 0 && blank(first-1) == blank(cursor) {
		first--
	}
	end := first - 1
	for n := vim.Count(o.count); n > 0 && end < last; n-- {
		end = runEnd(end + 1)
		if o.Outer && end < last {
			end = runEnd(end + 1)
		}
	}
	if o.Outer && !blank(cursor) && !blank(end) && first > 0 {
		for first > 0 && blank(first-1) {
			first--
		}
	}
	return vim.TextRange{
		Start: c.LineInformation(first).Begin,
		End:   vim.LineEndWithTerminator(c, c.LineInformation(end)),
		Type:  vim.Lines,
	}, nil
}

func (o *Paragraph) ContentType(platform.Configuration) vim.ContentType {
	return vim.Lines
}

func (o *Paragraph) WithCount(n int) vim.TextObject {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}
