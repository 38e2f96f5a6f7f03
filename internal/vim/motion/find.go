package motion

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// FindChar searches the current line for a character (f, F, t, T).
type FindChar struct {
	Char     rune
	Backward bool

	// Till stops one character short of the match.
	Till bool

	count int

	// repeated marks a find replayed by ";" or ",". A till repeat skips
	// an adjacent match so it does not get stuck.
	repeated bool
}

// Destination finds the count-th occurrence on the line.
func (f *FindChar) Destination(ed vim.Editor) (int, error) {
	c := ed.Content()
	line := currentLine(ed)
	pos := ed.Position()
	count := vim.Count(f.count)

	step := func(p int) int { return vim.NextOffset(c, p) }
	inLine := func(p int) bool { return p < line.End() }
	if f.Backward {
		step = func(p int) int { return vim.PrevOffset(c, p) }
		inLine = func(p int) bool { return p >= line.Begin && p < line.End() }
	}

	p := pos
	if f.Till && f.repeated {
		p = step(p)
	}
	for count > 0 {
		if f.Backward && p <= line.Begin {
			return 0, vim.Errorf("%w: %c", vim.ErrCharNotFound, f.Char)
		}
		p = step(p)
		if !inLine(p) {
			return 0, vim.Errorf("%w: %c", vim.ErrCharNotFound, f.Char)
		}
		if r, _ := vim.RuneAt(c, p); r == f.Char {
			count--
		}
	}
	if f.Till {
		if f.Backward {
			return vim.NextOffset(c, p), nil
		}
		return vim.PrevOffset(c, p), nil
	}
	return p, nil
}

// BorderPolicy is inclusive forward and exclusive backward.
func (f *FindChar) BorderPolicy() vim.BorderPolicy {
	if f.Backward {
		return vim.Exclusive
	}
	return vim.Inclusive
}

func (f *FindChar) Wise() vim.Wise { return vim.Characterwise }

func (f *FindChar) WithCount(n int) vim.Motion {
	cp := *f
	cp.count = vim.MultiplyCount(f.count, n)
	return &cp
}

// reversed returns the find for ",": same character, opposite direction.
func (f *FindChar) reversed() *FindChar {
	cp := *f
	cp.Backward = !f.Backward
	return &cp
}

// FindKeys returns the state after f, F, t or T: any printable key
// completes the motion.
func FindKeys(backward, till bool) state.State[vim.Motion] {
	return state.ConvertKey(func(s key.Stroke) (vim.Motion, bool) {
		r, ok := s.Character()
		if !ok {
			return nil, false
		}
		return &FindChar{Char: r, Backward: backward, Till: till}, true
	})
}

// ContinueFinding repeats the last f, F, t or T (;), or repeats it in the
// opposite direction (,).
type ContinueFinding struct {
	Reverse bool
	count   int
}

// Resolve returns the find to repeat.
func (c *ContinueFinding) Resolve(ed vim.Editor) (vim.Motion, error) {
	last, ok := ed.Registers().LastFindCharMotion().(*FindChar)
	if !ok || last == nil {
		return nil, vim.Errorf("%w: no character search", vim.ErrNoPrevious)
	}
	f := *last
	if c.Reverse {
		f = *last.reversed()
	}
	f.count = c.count
	f.repeated = true
	return &f, nil
}

// Destination resolves and delegates. Callers normally resolve first.
func (c *ContinueFinding) Destination(ed vim.Editor) (int, error) {
	m, err := c.Resolve(ed)
	if err != nil {
		return 0, err
	}
	return m.Destination(ed)
}

func (c *ContinueFinding) BorderPolicy() vim.BorderPolicy { return vim.Inclusive }
func (c *ContinueFinding) Wise() vim.Wise                 { return vim.Characterwise }

func (c *ContinueFinding) WithCount(n int) vim.Motion {
	cp := *c
	cp.count = vim.MultiplyCount(c.count, n)
	return &cp
}
