package motion

import (
	"regexp"

	"github.com/dshills/modal/internal/vim"
)

// Find returns the start of the count-th match of search after (or, going
// backward, before) from. The scan wraps around the buffer when wrapscan
// is set.
func Find(ed vim.Editor, search vim.Search, from int, backward bool, count int) (int, error) {
	re, err := vim.CompilePattern(search.Pattern, ed.Configuration())
	if err != nil {
		return 0, err
	}
	text := buffer(ed)
	starts := matchStarts(re, text)
	if len(starts) == 0 {
		return 0, vim.Errorf("%w: %s", vim.ErrNoMatch, search.Pattern)
	}
	wrap := ed.Configuration().WrapScan()
	pos := from
	for ; count > 0; count-- {
		next, ok := nextStart(starts, pos, backward, wrap)
		if !ok {
			edge := "BOTTOM"
			if backward {
				edge = "TOP"
			}
			return 0, vim.Errorf("search hit %s without match for: %s", edge, search.Pattern)
		}
		pos = next
	}
	return pos, nil
}

func matchStarts(re *regexp.Regexp, text string) []int {
	locs := re.FindAllStringIndex(text, -1)
	starts := make([]int, 0, len(locs))
	for _, l := range locs {
		starts = append(starts, l[0])
	}
	return starts
}

func nextStart(starts []int, pos int, backward, wrap bool) (int, bool) {
	if backward {
		for i := len(starts) - 1; i >= 0; i-- {
			if starts[i] < pos {
				return starts[i], true
			}
		}
		if wrap {
			return starts[len(starts)-1], true
		}
		return 0, false
	}
	for _, s := range starts {
		if s > pos {
			return s, true
		}
	}
	if wrap {
		return starts[0], true
	}
	return 0, false
}

// SearchResult jumps to the next match of the last search (n), or the
// next match in the opposite direction (N).
type SearchResult struct {
	Reverse bool
	count   int
}

// Destination searches from the cursor.
func (s *SearchResult) Destination(ed vim.Editor) (int, error) {
	last := ed.Registers().Search()
	if last == nil {
		return 0, vim.Errorf("%w: no previous regular expression", vim.ErrNoPrevious)
	}
	backward := last.Backward != s.Reverse
	return Find(ed, *last, ed.Position(), backward, vim.Count(s.count))
}

func (s *SearchResult) BorderPolicy() vim.BorderPolicy { return vim.Exclusive }
func (s *SearchResult) Wise() vim.Wise                 { return vim.Characterwise }
func (s *SearchResult) IsJump() bool                   { return true }

func (s *SearchResult) WithCount(n int) vim.Motion {
	cp := *s
	cp.count = vim.MultiplyCount(s.count, n)
	return &cp
}

// WordSearch searches for the keyword under or after the cursor (*, #, g*,
// g#). Resolving it records the search so that n and N continue it.
type WordSearch struct {
	Backward bool

	// Lenient matches the word inside longer words, as g* and g# do.
	Lenient bool

	count int
}

// Resolve stores the search for the word at the cursor.
func (w *WordSearch) Resolve(ed vim.Editor) (vim.Motion, error) {
	word, start, ok := keywordAt(ed)
	if !ok {
		return nil, vim.Errorf("no string under cursor")
	}
	pattern := regexp.QuoteMeta(word)
	if !w.Lenient {
		pattern = `\<` + pattern + `\>`
	}
	ed.Registers().SetSearch(&vim.Search{Pattern: pattern, Backward: w.Backward})
	return &wordSearchResult{SearchResult: SearchResult{count: w.count}, start: start}, nil
}

func (w *WordSearch) Destination(ed vim.Editor) (int, error) {
	m, err := w.Resolve(ed)
	if err != nil {
		return 0, err
	}
	return m.Destination(ed)
}

func (w *WordSearch) BorderPolicy() vim.BorderPolicy { return vim.Exclusive }
func (w *WordSearch) Wise() vim.Wise                 { return vim.Characterwise }
func (w *WordSearch) IsJump() bool                   { return true }

func (w *WordSearch) WithCount(n int) vim.Motion {
	cp := *w
	cp.count = vim.MultiplyCount(w.count, n)
	return &cp
}

// wordSearchResult searches from the start of the word so that "#" skips
// the word under the cursor.
type wordSearchResult struct {
	SearchResult
	start int
}

func (w *wordSearchResult) Destination(ed vim.Editor) (int, error) {
	last := ed.Registers().Search()
	return Find(ed, *last, w.start, last.Backward, vim.Count(w.count))
}

// keywordAt returns the keyword under the cursor, or the first one after
// it on the line.
func keywordAt(ed vim.Editor) (string, int, bool) {
	c := ed.Content()
	line := currentLine(ed)
	s := scanner{text: buffer(ed)}
	p := ed.Position()
	for p < line.End() && !vim.IsKeyword(s.at(p)) {
		p = s.next(p)
	}
	if p >= line.End() {
		return "", 0, false
	}
	start := p
	for start > line.Begin && vim.IsKeyword(s.at(s.prev(start))) {
		start = s.prev(start)
	}
	end := p
	for end < line.End() && vim.IsKeyword(s.at(end)) {
		end = s.next(end)
	}
	return c.Text(start, end-start), start, true
}
