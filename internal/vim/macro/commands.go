package macro

import (
	"strings"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// MaxStrokes bounds the strokes one playback may feed. A macro that calls
// itself without failing would otherwise never end.
const MaxStrokes = 100000

// StartRecording begins a recording (q{reg}).
type StartRecording struct {
	Recorder *Recorder
	Register rune
}

func (c *StartRecording) Execute(vim.Editor) error {
	return c.Recorder.Start(c.Register)
}

// StopRecording ends the recording and stores it (q). The q that stopped
// the recording was typed while recording and is left out.
type StopRecording struct {
	Recorder *Recorder
}

func (c *StopRecording) Execute(ed vim.Editor) error {
	name, strokes, ok := c.Recorder.Stop()
	if !ok {
		return nil
	}
	if n := len(strokes); n > 0 {
		strokes = strokes[:n-1]
	}
	reg, err := ed.Registers().Register(name)
	if err != nil {
		return err
	}
	ed.Logger().Debug("macro recorded", "register", string(name), "strokes", len(strokes))
	return reg.SetContent(vim.TextOf(key.FormatSequence(strokes)))
}

// Play feeds the keys stored in a register (@{reg}). @@ plays the last
// played register again and @: repeats the last command line.
type Play struct {
	Register rune
	count    int
}

func (p *Play) Execute(ed vim.Editor) error {
	regs := ed.Registers()
	name := p.Register
	if name == vim.RegisterMacro {
		if name = regs.LastMacro(); name == 0 {
			return vim.Errorf("%w: macro", vim.ErrNoPrevious)
		}
	}
	if name == vim.RegisterCommandLine {
		return p.repeatCommandLine(ed)
	}

	reg, err := regs.Register(name)
	if err != nil {
		return err
	}
	content := reg.Content()
	if content.IsEmpty() {
		return vim.Errorf("%w: %c", vim.ErrEmptyRegister, name)
	}
	strokes, err := Strokes(content)
	if err != nil {
		return err
	}
	n := vim.Count(p.count)
	if len(strokes)*n > MaxStrokes {
		return vim.Errorf("macro %c too long", name)
	}
	feed := make([]key.Stroke, 0, len(strokes)*n)
	for range n {
		feed = append(feed, strokes...)
	}
	regs.SetLastMacro(name)
	ed.FeedKeys(feed)
	return nil
}

func (p *Play) repeatCommandLine(ed vim.Editor) error {
	regs := ed.Registers()
	line := regs.LastCommandLine()
	if line == "" {
		return vim.Errorf("%w: command line", vim.ErrNoPrevious)
	}
	regs.SetLastMacro(vim.RegisterCommandLine)
	for range vim.Count(p.count) {
		if err := ed.Evaluate(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Play) WithCount(n int) vim.Command {
	cp := *p
	cp.count = vim.MultiplyCount(p.count, n)
	return &cp
}

// Strokes parses register content as keys. Line breaks stand for <CR>.
func Strokes(c vim.Content) ([]key.Stroke, error) {
	text := strings.ReplaceAll(c.String(), "\n", "<CR>")
	strokes, err := key.ParseSequence(text)
	if err != nil {
		return nil, vim.Errorf("register is not a macro: %v", err)
	}
	return strokes, nil
}

// Bindings returns the q and @ table for normal mode. A q pressed while
// recording stops the recording instead of waiting for a register.
func Bindings(rec *Recorder) state.State[vim.Command] {
	q := key.Rune('q').Code()
	start := state.ConvertKey(func(s key.Stroke) (vim.Command, bool) {
		if !IsRecordable(s.Rune) {
			return nil, false
		}
		return &StartRecording{Recorder: rec, Register: s.Rune}, true
	})
	play := state.ConvertKey(func(s key.Stroke) (vim.Command, bool) {
		if !vim.IsValidName(s.Rune) {
			return nil, false
		}
		return &Play{Register: s.Rune}, true
	})
	return state.Union(
		state.Func(func(s key.Stroke) (state.Transition[vim.Command], bool) {
			if s.Code() != q {
				return state.Transition[vim.Command]{}, false
			}
			if rec.IsRecording() {
				return state.NewTransition[vim.Command](&StopRecording{Recorder: rec}, nil), true
			}
			return state.Continue(start), true
		}),
		state.New(state.Trans(key.Rune('@'), play)),
	)
}
