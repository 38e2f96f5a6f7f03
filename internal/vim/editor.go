package vim

import (
	"log/slog"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
)

// Mode names.
const (
	ModeNormal          = "normal"
	ModeVisual          = "visual"
	ModeVisualLine      = "linewise visual"
	ModeVisualBlock     = "blockwise visual"
	ModeInsert          = "insert"
	ModeCommandLine     = "command line"
	ModeSearch          = "search"
	ModeDelimiterPrompt = "delimiter prompt"
)

// Editor is the facade commands execute against. It combines the host
// platform with the session's registers, listeners and mode control.
type Editor interface {
	Content() platform.TextContent
	Cursor() platform.CursorService
	Selection() platform.SelectionService
	History() platform.HistoryService
	UI() platform.UserInterface
	Configuration() platform.Configuration

	Registers() *RegisterManager
	Listeners() *Listeners
	Logger() *slog.Logger

	// Position and SetPosition are shorthands for the cursor service.
	Position() int
	SetPosition(offset int, policy platform.StickyColumnPolicy)

	// ChangeMode leaves the current mode and enters the named one.
	ChangeMode(name string, hints ...Hint) error
	ModeName() string

	// FeedKeys queues strokes to be dispatched, as virtual strokes, once
	// the current stroke has been handled.
	FeedKeys(strokes []key.Stroke)

	// Evaluate runs a command line such as "s/a/b/g".
	Evaluate(line string) error
}

// Listeners are the dispatcher's observers.
type Listeners struct {
	aboutToExecute []func(Command)
	executed       []func(Command)
	stateReset     []func(recognized bool)
}

// OnAboutToExecute registers fn to run before each command.
func (l *Listeners) OnAboutToExecute(fn func(Command)) {
	l.aboutToExecute = append(l.aboutToExecute, fn)
}

// OnExecuted registers fn to run after each successful command.
func (l *Listeners) OnExecuted(fn func(Command)) {
	l.executed = append(l.executed, fn)
}

// OnStateReset registers fn to run whenever a mode returns to its initial
// state. recognized is false for an unrecognised sequence.
func (l *Listeners) OnStateReset(fn func(recognized bool)) {
	l.stateReset = append(l.stateReset, fn)
}

// FireAboutToExecute notifies observers that c is about to run.
func (l *Listeners) FireAboutToExecute(c Command) {
	for _, fn := range l.aboutToExecute {
		fn(c)
	}
}

// FireExecuted notifies observers that c ran.
func (l *Listeners) FireExecuted(c Command) {
	for _, fn := range l.executed {
		fn(c)
	}
}

// FireStateReset notifies observers of a reset.
func (l *Listeners) FireStateReset(recognized bool) {
	for _, fn := range l.stateReset {
		fn(recognized)
	}
}

// Change runs fn inside a compound change so its edits undo as one unit.
// The change is closed on every exit path.
func Change(ed Editor, fn func() error) error {
	h := ed.History()
	h.BeginCompoundChange()
	defer h.EndCompoundChange()
	return fn()
}
