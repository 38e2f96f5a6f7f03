package motion

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// IsMarkName reports whether a mark can be set with "m" or read with ' and
// `. Uppercase marks behave like lowercase ones in a single buffer.
func IsMarkName(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	}
	switch r {
	case platform.MarkLastChangeStart, platform.MarkLastChangeEnd, platform.MarkLastEdit,
		platform.MarkPreviousContext, platform.MarkSelectionStart, platform.MarkSelectionEnd, '`':
		return true
	}
	return false
}

// markName maps the ` alias to the previous context mark.
func markName(r rune) rune {
	if r == '`' {
		return platform.MarkPreviousContext
	}
	return r
}

// GoToMark jumps to a mark: linewise to its first non-blank (') or
// exactly (`).
type GoToMark struct {
	Name     rune
	Linewise bool
}

// Destination reads the mark.
func (g *GoToMark) Destination(ed vim.Editor) (int, error) {
	pos, ok := ed.Cursor().Mark(markName(g.Name))
	if !ok {
		return 0, vim.Errorf("%w: %c", vim.ErrNoMark, g.Name)
	}
	pos = vim.ClampPosition(ed.Content(), pos)
	if g.Linewise {
		c := ed.Content()
		return vim.FirstNonBlank(c, c.LineInformationOfOffset(pos)), nil
	}
	return pos, nil
}

func (g *GoToMark) BorderPolicy() vim.BorderPolicy { return vim.Exclusive }
func (g *GoToMark) IsJump() bool                   { return true }

func (g *GoToMark) Wise() vim.Wise {
	if g.Linewise {
		return vim.Linewise
	}
	return vim.Characterwise
}

// MarkKeys returns the state after ' or `.
func MarkKeys(linewise bool) state.State[vim.Motion] {
	return state.ConvertKey(func(s key.Stroke) (vim.Motion, bool) {
		if !IsMarkName(s.Rune) {
			return nil, false
		}
		return &GoToMark{Name: s.Rune, Linewise: linewise}, true
	})
}

// LastEdit goes to the position of the last change (g; g,). Only the most
// recent change is remembered.
func LastEdit() vim.Motion {
	return newMotion("last edit", func(ed vim.Editor, _ int) (int, error) {
		pos, ok := ed.Cursor().Mark(platform.MarkLastEdit)
		if !ok {
			return 0, vim.Errorf("%w: change list is empty", vim.ErrNoMark)
		}
		return vim.ClampPosition(ed.Content(), pos), nil
	})
}
