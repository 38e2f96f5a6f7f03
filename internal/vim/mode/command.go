package mode

import (
	"runtime/debug"
	"strings"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
)

// CommandBuffer is the echo of the keys typed so far. Keys held back while
// a mapping is being matched are appended after remapIndex so that they can
// be dropped once the mapping resolves and the keys come back replayed.
type CommandBuffer struct {
	keys       []string
	remapIndex int
	remapping  bool
}

// Append adds the display form of s.
func (b *CommandBuffer) Append(s key.Stroke) {
	b.keys = append(b.keys, s.Display())
}

// StartRemap marks the current end as the start of held keys. Calls while
// a remap is already open keep the first mark.
func (b *CommandBuffer) StartRemap() {
	if !b.remapping {
		b.remapIndex = len(b.keys)
		b.remapping = true
	}
}

// TruncateRemap drops the held keys.
func (b *CommandBuffer) TruncateRemap() {
	if b.remapping {
		b.keys = b.keys[:b.remapIndex]
		b.remapping = false
	}
}

// Clear empties the buffer.
func (b *CommandBuffer) Clear() {
	b.keys = b.keys[:0]
	b.remapping = false
	b.remapIndex = 0
}

func (b *CommandBuffer) String() string {
	return strings.Join(b.keys, "")
}

// CommandBased dispatches strokes through a command table. Normal and
// visual modes embed it and supply the cursor placement rule.
type CommandBased struct {
	ed       vim.Editor
	initial  state.State[vim.Command]
	current  state.State[vim.Command]
	resolver *keymap.Resolver
	buffer   CommandBuffer
	active   bool

	placeCursor func(policy platform.StickyColumnPolicy)
	commandDone func()
}

func newCommandBased(ed vim.Editor, initial state.State[vim.Command], resolver *keymap.Resolver) *CommandBased {
	m := &CommandBased{ed: ed, initial: initial, current: initial, resolver: resolver}
	m.placeCursor = func(platform.StickyColumnPolicy) {}
	m.commandDone = m.buffer.Clear
	return m
}

// Press advances the command table by one stroke, running the command it
// completes.
func (m *CommandBased) Press(s key.Stroke) bool {
	ui := m.ed.UI()
	if !s.Virtual {
		ui.SetErrorMessage("")
	}

	t, ok := state.Press(m.current, s)
	stored := s
	if !ok {
		if fixed, altGr := key.FixAltGr(s); altGr {
			t, ok = state.Press(m.current, fixed)
			stored = fixed
		}
	}
	m.resolver.Store(stored)
	m.buffer.Append(s)

	recognized := false
	if ok {
		m.current = t.Next()
		if cmd, has := t.Value(); has {
			recognized = true
			if err := m.Execute(cmd); err != nil {
				m.fail(err)
			}
		}
	}
	if !ok || state.IsEmpty(m.current) {
		m.Reset()
		m.ed.Listeners().FireStateReset(recognized)
		if m.active {
			m.commandDone()
		}
	}

	if m.active {
		if msg, set := ui.LastCommandResult(); set {
			m.buffer.Clear()
			ui.SetInfoMessage(msg)
			ui.ClearLastCommandResult()
		} else if !s.Virtual {
			ui.SetInfoMessage("")
		}
		ui.SetCommandLine(m.buffer.String())
		m.placeCursor(platform.StickyNever)
	}
	return true
}

// Execute runs c and records its repetition as the last edit. A panic in
// c is returned as an error.
func (m *CommandBased) Execute(c vim.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.ed.Logger().Error("command panicked", "panic", r, "stack", string(debug.Stack()))
			err = vim.Errorf("internal error: %v", r)
		}
	}()

	l := m.ed.Listeners()
	l.FireAboutToExecute(c)
	if err := c.Execute(m.ed); err != nil {
		return err
	}
	l.FireExecuted(c)

	rep := vim.RepetitionOf(c)
	if rep == nil {
		return nil
	}
	regs := m.ed.Registers()
	if !regs.IsDefaultActive() {
		rep = vim.Sequence(vim.SwitchRegister{Name: regs.ActiveName()}, rep)
	}
	regs.SetLastEdit(rep)
	m.ed.Cursor().SetMark(platform.MarkLastEdit, m.ed.Position())
	regs.ActivateDefault()
	return nil
}

func (m *CommandBased) fail(err error) {
	m.ed.Logger().Debug("command failed", "mode", m.ed.ModeName(), "error", err)
	m.ed.UI().SetErrorMessage(vim.Message(err))
	m.Reset()
	m.ed.Listeners().FireStateReset(true)
	if m.active {
		m.commandDone()
	}
}

// Reset returns to the initial state and forgets the typed keys.
func (m *CommandBased) Reset() {
	m.current = m.initial
	m.resolver.Reset()
	m.buffer.Clear()
}

// KeyMap returns the keymap the resolver has settled on.
func (m *CommandBased) KeyMap() string {
	return m.resolver.KeyMap()
}

// AddKeyToMapBuffer echoes a key held back by the remapper.
func (m *CommandBased) AddKeyToMapBuffer(s key.Stroke) {
	m.buffer.StartRemap()
	m.buffer.Append(s)
	m.ed.UI().SetCommandLine(m.buffer.String())
}

// CleanMapBuffer drops held keys; they are replayed, mapped or not.
func (m *CommandBased) CleanMapBuffer(bool) {
	m.buffer.TruncateRemap()
}

// Pending returns the echo of the keys typed so far.
func (m *CommandBased) Pending() string {
	return m.buffer.String()
}

func (m *CommandBased) enter() {
	m.active = true
	m.Reset()
}

func (m *CommandBased) leave() {
	m.active = false
	m.Reset()
	m.ed.UI().SetCommandLine("")
}

// runHint executes the command of an ExecuteHint through Execute, so that
// it becomes the last edit.
func (m *CommandBased) runHint(hints []vim.Hint) {
	h, ok := hint[vim.ExecuteHint](hints)
	if !ok || h.Command == nil {
		return
	}
	if err := m.Execute(h.Command); err != nil {
		m.ed.UI().SetErrorMessage(vim.Message(err))
	}
}
