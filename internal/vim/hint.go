package vim

import (
	"github.com/dshills/modal/internal/platform"
)

// Hint is a payload handed to a mode when it is entered or left. The set of
// hints is closed; modes switch on the concrete type and ignore hints that
// do not concern them.
type Hint interface {
	isHint()
}

// InsertHint is given to insert mode by the command that entered it.
type InsertHint struct {
	// Repetition replays the entering command without switching modes, so
	// that "." can combine it with the inserted text.
	Repetition Command

	// Count repeats the inserted text, as in "3ifoo<Esc>".
	Count int

	// EachCommand makes the count repeat the repetition as well as the
	// text, so that "3o" opens three lines.
	EachCommand bool
}

// VisualHint configures a visual mode on entry.
type VisualHint struct {
	Kind platform.SelectionKind

	// Recall restores the last selection ("gv").
	Recall bool

	// Selection, when set, is used as the initial selection.
	Selection *platform.Selection
}

// CommandLineHint pre-fills the command line.
type CommandLineHint struct {
	Text string
}

// SearchHint sets the direction of a search prompt.
type SearchHint struct {
	Backward bool
}

// DelimiterHint starts a prompt for a delimiter template, such as an HTML
// tag for surround. Build turns the typed text into the command to run.
type DelimiterHint struct {
	Prompt string
	Build  func(input string) (Command, error)
}

// ExecuteHint asks the entered mode to run a command through its normal
// execution path, which records repetition and resets the register.
type ExecuteHint struct {
	Command Command
}

// FromVisual tells normal mode that a visual mode is handing back control,
// so the cursor stays where the selection left it.
type FromVisual struct{}

// KeepSelection tells a visual mode being left not to clear the selection.
type KeepSelection struct{}

func (InsertHint) isHint()      {}
func (VisualHint) isHint()      {}
func (CommandLineHint) isHint() {}
func (SearchHint) isHint()      {}
func (DelimiterHint) isHint()   {}
func (ExecuteHint) isHint()     {}
func (FromVisual) isHint()      {}
func (KeepSelection) isHint()   {}
