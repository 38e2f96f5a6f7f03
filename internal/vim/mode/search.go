package mode

import (
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
)

// Search is the "/" and "?" prompt. An empty pattern searches for the last
// one again in the new direction.
type Search struct {
	prompt
	backward bool
}

var _ Mode = (*Search)(nil)

// NewSearch creates the search prompt mode.
func NewSearch(ed vim.Editor) *Search {
	m := &Search{prompt: prompt{ed: ed}}
	m.submit = m.find
	return m
}

func (m *Search) Name() string        { return vim.ModeSearch }
func (m *Search) DisplayName() string { return "SEARCH" }

func (m *Search) Enter(hints ...vim.Hint) error {
	h, _ := hint[vim.SearchHint](hints)
	m.backward = h.Backward
	prefix := "/"
	if m.backward {
		prefix = "?"
	}
	m.start(prefix, "", hints)
	return nil
}

func (m *Search) Leave(...vim.Hint) error {
	m.stop()
	return nil
}

// find records the search, so n and N continue it, and jumps to the first
// match.
func (m *Search) find(pattern string) error {
	ed := m.ed
	regs := ed.Registers()
	if pattern == "" {
		last := regs.Search()
		if last == nil {
			return vim.Errorf("%w: no previous regular expression", vim.ErrNoPrevious)
		}
		pattern = last.Pattern
	}
	s := vim.Search{Pattern: pattern, Backward: m.backward}
	regs.SetSearch(&s)

	pos, err := motion.Find(ed, s, ed.Position(), m.backward, 1)
	if err != nil {
		return err
	}
	ed.Cursor().SetMark(platform.MarkPreviousContext, ed.Position())
	ed.SetPosition(pos, platform.StickyOnChange)
	return nil
}
