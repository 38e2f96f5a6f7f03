package textobj

import (
	"regexp"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

var (
	// Single-line comments: //, #, --, ; at the start of a line.
	singleLineComment = regexp.MustCompile(`^\s*((/(/)+|(#)+|-(-)+|(;)+)\s*)`)

	// Block comments: /* */, {- -}, <!-- -->, anywhere on a line.
	blockCommentStart = regexp.MustCompile(`\s*((/(\*)+|\{(-)+|<!-(-)+)\s*)`)
	blockCommentEnd   = regexp.MustCompile(`(\s*((\*)+/|(-)+\}|(-)+->))`)
)

// Comment selects the comment around the cursor (ic, ac, iC, aC). Inner
// objects exclude the comment tokens. Linewise objects extend a
// single-line comment over the adjacent commented lines. Counts are
// accepted and ignored since comments do not nest.
type Comment struct {
	Outer    bool
	Linewise bool
}

// Region resolves the comment. When the cursor is not in a comment the
// result is the empty range at the cursor.
func (o *Comment) Region(ed vim.Editor) (vim.TextRange, error) {
	c := ed.Content()
	pos := ed.Position()
	line := c.LineInformationOfOffset(pos)
	if m := singleLineComment.FindStringSubmatchIndex(vim.LineText(c, line)); m != nil {
		start := line.Begin + o.tokenEdge(m, true)
		if o.Linewise {
			return o.adjacentLines(c, line, start), nil
		}
		return vim.NewRange(start, line.End(), vim.Text), nil
	}
	return o.block(c, pos), nil
}

// ContentType is lines only for the outer linewise object.
func (o *Comment) ContentType(platform.Configuration) vim.ContentType {
	if o.Outer && o.Linewise {
		return vim.Lines
	}
	return vim.Text
}

// WithCount ignores the count.
func (o *Comment) WithCount(int) vim.TextObject {
	return o
}

// tokenEdge picks the edge of group 1 of a token match: the outer side of
// an opening token for outer objects, the inner side otherwise.
func (o *Comment) tokenEdge(m []int, opening bool) int {
	if opening == o.Outer {
		return m[2]
	}
	return m[3]
}

func (o *Comment) adjacentLines(c platform.TextContent, line platform.LineInfo, start int) vim.TextRange {
	end := line.End()
	for n := line.Number - 1; n >= 0; n-- {
		prev := c.LineInformation(n)
		m := singleLineComment.FindStringSubmatchIndex(vim.LineText(c, prev))
		if m == nil {
			break
		}
		start = prev.Begin + o.tokenEdge(m, true)
	}
	last := vim.LastLine(c)
	for n := line.Number + 1; n <= last; n++ {
		next := c.LineInformation(n)
		if !singleLineComment.MatchString(vim.LineText(c, next)) {
			break
		}
		end = next.End()
	}
	return vim.NewRange(start, end, o.ContentType(nil))
}

// block finds a block comment around pos. The backward scan gives up when
// a comment closes between its opening and the cursor, and the forward
// scan gives up when another comment opens before the closing token, so
// the object never enters a neighbouring comment.
func (o *Comment) block(c platform.TextContent, pos int) vim.TextRange {
	none := vim.EmptyRange(pos)
	cursorLine := c.LineInformationOfOffset(pos)

	start := -1
	for n := cursorLine.Number; n >= 0; n-- {
		line := c.LineInformation(n)
		text := vim.LineText(c, line)
		limit := len(text)
		if n == cursorLine.Number {
			limit = pos - line.Begin
		}
		open := lastMatch(blockCommentStart, text, func(m []int) bool { return m[2] <= limit })
		closed := lastMatch(blockCommentEnd, text, func(m []int) bool { return m[3] <= limit })
		if closed != nil && (open == nil || closed[2] > open[2]) {
			return none
		}
		if open != nil {
			edge := o.tokenEdge(open, true)
			if edge == line.Length && n < vim.LastLine(c) {
				start = c.LineInformation(n + 1).Begin
			} else {
				start = line.Begin + edge
			}
			break
		}
	}
	if start < 0 {
		return none
	}

	last := vim.LastLine(c)
	for n := cursorLine.Number; n <= last; n++ {
		line := c.LineInformation(n)
		text := vim.LineText(c, line)
		from := 0
		if n == cursorLine.Number {
			from = pos - line.Begin
		}
		rest := text[from:]
		closing := blockCommentEnd.FindStringSubmatchIndex(rest)
		opening := blockCommentStart.FindStringSubmatchIndex(rest)
		if opening != nil && line.Begin+from+opening[2] > start && (closing == nil || opening[2] < closing[2]) {
			return none
		}
		if closing != nil {
			end := line.Begin + from + o.tokenEdge(closing, false)
			return vim.NewRange(start, max(start, end), o.ContentType(nil))
		}
	}
	return none
}

// lastMatch returns the last match of re in text accepted by keep.
func lastMatch(re *regexp.Regexp, text string, keep func([]int) bool) []int {
	var found []int
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if keep(m) {
			found = m
		}
	}
	return found
}
