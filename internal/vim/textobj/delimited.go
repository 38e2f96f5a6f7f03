package textobj

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
)

// DelimitedText locates a pair of delimiters around the cursor. The
// returned ranges cover the delimiters themselves. Surround commands use
// them to delete or replace the delimiters.
type DelimitedText interface {
	Delimiters(ed vim.Editor, count int) (left, right vim.TextRange, err error)
}

// Pair delimits text with an opening and a closing character, honouring
// nesting: (), {}, [], <>.
type Pair struct {
	Open  rune
	Close rune
}

func (p Pair) Delimiters(ed vim.Editor, count int) (vim.TextRange, vim.TextRange, error) {
	c := ed.Content()
	left, right, ok := motion.EnclosingPair(c.Text(0, c.TextLength()), ed.Position(), p.Open, p.Close, vim.Count(count))
	if !ok {
		return vim.TextRange{}, vim.TextRange{}, vim.Errorf("%w: no enclosing %c%c", vim.ErrNoMatch, p.Open, p.Close)
	}
	return vim.NewRange(left, left+len(string(p.Open)), vim.Text),
		vim.NewRange(right, right+len(string(p.Close)), vim.Text), nil
}

// Quote delimits text between two unescaped quote characters on the
// cursor's line.
type Quote rune

func (q Quote) Delimiters(ed vim.Editor, _ int) (vim.TextRange, vim.TextRange, error) {
	c := ed.Content()
	line := c.LineInformationOfOffset(ed.Position())
	text := vim.LineText(c, line)
	pos := ed.Position() - line.Begin

	var quotes []int
	for i, r := range text {
		if r == rune(q) && (i == 0 || text[i-1] != '\\') {
			quotes = append(quotes, i)
		}
	}
	width := len(string(rune(q)))
	found := func(a, b int) (vim.TextRange, vim.TextRange, error) {
		return vim.NewRange(line.Begin+a, line.Begin+a+width, vim.Text),
			vim.NewRange(line.Begin+b, line.Begin+b+width, vim.Text), nil
	}
	// Quotes before the cursor decide whether it is inside a string.
	i := 0
	for i < len(quotes) && quotes[i] < pos {
		i++
	}
	switch {
	case i%2 == 1 && i < len(quotes):
		return found(quotes[i-1], quotes[i])
	case i%2 == 0 && i+1 < len(quotes):
		return found(quotes[i], quotes[i+1])
	}
	return vim.TextRange{}, vim.TextRange{}, vim.Errorf("%w: no quoted string", vim.ErrNoMatch)
}

var tagPattern = regexp.MustCompile(`<(/?)([^\s>/]+)[^>]*?(/?)>`)

// Tag delimits text between matching XML tags.
type Tag struct{}

type tagMatch struct {
	name       string
	start, end int
}

func (Tag) Delimiters(ed vim.Editor, count int) (vim.TextRange, vim.TextRange, error) {
	c := ed.Content()
	text := c.Text(0, c.TextLength())
	pos := ed.Position()

	var stack []tagMatch
	var enclosing [][2]tagMatch
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[7] > m[6] {
			continue
		}
		t := tagMatch{name: text[m[4]:m[5]], start: m[0], end: m[1]}
		if m[3] == m[2] {
			stack = append(stack, t)
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name != t.name {
				continue
			}
			open := stack[i]
			stack = stack[:i]
			if open.start <= pos && pos < t.end {
				enclosing = append(enclosing, [2]tagMatch{open, t})
			}
			break
		}
	}
	// Pairs close innermost first.
	n := vim.Count(count)
	if n > len(enclosing) {
		return vim.TextRange{}, vim.TextRange{}, vim.Errorf("%w: no enclosing tag", vim.ErrNoMatch)
	}
	pair := enclosing[n-1]
	return vim.NewRange(pair[0].start, pair[0].end, vim.Text),
		vim.NewRange(pair[1].start, pair[1].end, vim.Text), nil
}

// Delimited selects the text between delimiters (i(, a", it ...). The
// outer object includes the delimiters; for quotes it also takes the
// whitespace after the closing quote, or before the opening one when none
// follows.
type Delimited struct {
	Text  DelimitedText
	Inner bool
	count int
}

func (o *Delimited) Region(ed vim.Editor) (vim.TextRange, error) {
	left, right, err := o.Text.Delimiters(ed, o.count)
	if err != nil {
		return vim.TextRange{}, err
	}
	c := ed.Content()
	if !o.Inner {
		r := vim.NewRange(left.Start, right.End, vim.Text)
		if _, ok := o.Text.(Quote); ok {
			r = quoteSpace(c, r)
		}
		return r, nil
	}

	start, end := left.End, right.Start
	if _, ok := o.Text.(Pair); ok && start < end {
		first := c.LineInformationOfOffset(start)
		if start == first.End() {
			start = vim.LineEndWithTerminator(c, first)
		}
		closing := c.LineInformationOfOffset(end)
		if closing.Begin > start && strings.TrimSpace(c.Text(closing.Begin, end-closing.Begin)) == "" {
			end = closing.Begin
		}
	}
	return vim.NewRange(start, max(start, end), vim.Text), nil
}

func quoteSpace(c platform.TextContent, r vim.TextRange) vim.TextRange {
	line := c.LineInformationOfOffset(r.Start)
	text := vim.LineText(c, line)
	after := r.End - line.Begin
	trailing := len(text[after:]) - len(strings.TrimLeftFunc(text[after:], unicode.IsSpace))
	if trailing > 0 {
		r.End += trailing
		return r
	}
	before := r.Start - line.Begin
	r.Start -= before - len(strings.TrimRightFunc(text[:before], unicode.IsSpace))
	return r
}

func (o *Delimited) ContentType(platform.Configuration) vim.ContentType {
	return vim.Text
}

func (o *Delimited) WithCount(n int) vim.TextObject {
	cp := *o
	cp.count = vim.MultiplyCount(o.count, n)
	return &cp
}
