// Package vimtest provides a lightweight vim.Editor over the in-memory
// platform for testing motions, text objects and operations without a
// session.
package vimtest

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/platform/memory"
	"github.com/dshills/modal/internal/vim"
)

// ModeChange records a ChangeMode call.
type ModeChange struct {
	Name  string
	Hints []vim.Hint
}

// Editor implements vim.Editor for tests. Mode changes, fed keys and
// evaluated lines are recorded rather than acted on.
type Editor struct {
	*memory.Platform

	registers *vim.RegisterManager
	listeners vim.Listeners
	logger    *slog.Logger
	mode      string

	ModeChanges []ModeChange
	Fed         []key.Stroke
	Evaluated   []string
	EvalFunc    func(line string) error
}

var _ vim.Editor = (*Editor)(nil)

// New creates an editor over text. A '|' in text marks the cursor and is
// removed.
func New(text string, opts ...memory.Option) *Editor {
	cursor := strings.IndexByte(text, '|')
	if cursor >= 0 {
		text = text[:cursor] + text[cursor+1:]
	} else {
		cursor = 0
	}
	p := memory.New(text, opts...)
	e := &Editor{
		Platform:  p,
		registers: vim.NewRegisterManager(p.Clipboard(), p.FileName),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mode:      vim.ModeNormal,
	}
	e.SetPosition(cursor, platform.StickyOnChange)
	return e
}

// Text returns the buffer.
func (e *Editor) Text() string {
	return e.Buffer().String()
}

// WithCursor returns the buffer with '|' inserted at the cursor.
func (e *Editor) WithCursor() string {
	t := e.Text()
	p := e.Position()
	return t[:p] + "|" + t[p:]
}

func (e *Editor) Registers() *vim.RegisterManager { return e.registers }
func (e *Editor) Listeners() *vim.Listeners       { return &e.listeners }
func (e *Editor) Logger() *slog.Logger            { return e.logger }
func (e *Editor) Position() int                   { return e.Cursor().Position() }
func (e *Editor) ModeName() string                { return e.mode }

func (e *Editor) SetPosition(offset int, policy platform.StickyColumnPolicy) {
	e.Cursor().SetPosition(offset, policy)
}

func (e *Editor) ChangeMode(name string, hints ...vim.Hint) error {
	e.ModeChanges = append(e.ModeChanges, ModeChange{Name: name, Hints: hints})
	e.mode = name
	return nil
}

func (e *Editor) FeedKeys(strokes []key.Stroke) {
	e.Fed = append(e.Fed, strokes...)
}

func (e *Editor) Evaluate(line string) error {
	e.Evaluated = append(e.Evaluated, line)
	if e.EvalFunc != nil {
		return e.EvalFunc(line)
	}
	return nil
}

// LastModeChange returns the most recent ChangeMode call.
func (e *Editor) LastModeChange() (ModeChange, bool) {
	if len(e.ModeChanges) == 0 {
		return ModeChange{}, false
	}
	return e.ModeChanges[len(e.ModeChanges)-1], true
}
