package motion

import (
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// destFunc computes a destination for a count. count is always at least 1
// unless the motion asked for the raw count.
type destFunc func(ed vim.Editor, count int) (int, error)

// basic is the common motion implementation: a destination function plus
// the motion's static properties.
type basic struct {
	name     string
	dest     destFunc
	border   vim.BorderPolicy
	wise     vim.Wise
	sticky   platform.StickyColumnPolicy
	jump     bool
	rawCount bool
	big      bool
	count    int
}

type option func(*basic)

func inclusive(b *basic) { b.border = vim.Inclusive }
func linewise(b *basic)  { b.wise = vim.Linewise }
func jump(b *basic)      { b.jump = true }

// rawCount passes vim.NoCount through to the destination function, for
// motions such as G where a missing count differs from a count of 1.
func rawCount(b *basic) { b.rawCount = true }

func sticky(p platform.StickyColumnPolicy) option {
	return func(b *basic) { b.sticky = p }
}

func newMotion(name string, dest destFunc, opts ...option) *basic {
	b := &basic{name: name, dest: dest, sticky: platform.StickyOnChange}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *basic) Destination(ed vim.Editor) (int, error) {
	count := b.count
	if !b.rawCount {
		count = vim.Count(count)
	}
	return b.dest(ed, count)
}

func (b *basic) BorderPolicy() vim.BorderPolicy            { return b.border }
func (b *basic) Wise() vim.Wise                            { return b.wise }
func (b *basic) StickyPolicy() platform.StickyColumnPolicy { return b.sticky }
func (b *basic) IsJump() bool                              { return b.jump }

func (b *basic) WithCount(n int) vim.Motion {
	cp := *b
	cp.count = vim.MultiplyCount(b.count, n)
	return &cp
}

func (b *basic) bigWord() bool {
	return b.big
}

func (b *basic) String() string {
	return b.name
}

// Command moves the cursor with a motion. Jumps set the previous context
// mark first.
type Command struct {
	Motion vim.Motion
}

// NewCommand wraps a motion.
func NewCommand(m vim.Motion) *Command {
	return &Command{Motion: m}
}

// Execute moves the cursor.
func (c *Command) Execute(ed vim.Editor) error {
	m, err := vim.ResolveMotion(ed, c.Motion)
	if err != nil {
		return err
	}
	dest, err := m.Destination(ed)
	if err != nil {
		return err
	}
	Remember(ed, m)
	ed.Registers().SetLastNavigatingMotion(m)
	if vim.IsJump(m) {
		ed.Cursor().SetMark(platform.MarkPreviousContext, ed.Position())
	}
	ed.SetPosition(dest, vim.StickyPolicyOf(m))
	return nil
}

// Remember records a motion that ";" and "," can repeat. Every consumer
// of a resolved motion calls it after the destination succeeds.
func Remember(ed vim.Editor, m vim.Motion) {
	if f, ok := m.(*FindChar); ok && !f.repeated {
		ed.Registers().SetLastFindCharMotion(f)
	}
}

// WithCount applies the count to the motion.
func (c *Command) WithCount(n int) vim.Command {
	return &Command{Motion: vim.MotionWithCount(c.Motion, n)}
}

// buffer returns the whole text. Motions scan the snapshot rather than
// the live buffer.
func buffer(ed vim.Editor) string {
	c := ed.Content()
	return c.Text(0, c.TextLength())
}

// currentLine returns the cursor's line.
func currentLine(ed vim.Editor) platform.LineInfo {
	return ed.Content().LineInformationOfOffset(ed.Position())
}
