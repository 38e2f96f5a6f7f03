// Package platform defines the capabilities the command engine needs from
// its host editor. The engine reads and replaces text, moves the cursor,
// groups changes for undo, and reports messages only through these
// interfaces.
package platform

// LineInfo describes one line of the buffer. Offsets are byte offsets and
// Length excludes the line terminator.
type LineInfo struct {
	Number int
	Begin  int
	Length int
}

// End returns the offset just past the last character of the line, which
// is where the line terminator starts.
func (l LineInfo) End() int {
	return l.Begin + l.Length
}

// TextContent is read and replace access to the buffer.
type TextContent interface {
	// Text returns length bytes starting at offset.
	Text(offset, length int) string

	// TextLength returns the buffer size in bytes.
	TextLength() int

	// Replace substitutes length bytes at offset with text.
	Replace(offset, length int, text string) error

	// LineCount returns the number of lines. An empty buffer has one line.
	LineCount() int

	// LineInformation returns metrics for a zero-based line number,
	// clamped to the valid range.
	LineInformation(line int) LineInfo

	// LineInformationOfOffset returns metrics for the line containing offset.
	LineInformationOfOffset(offset int) LineInfo
}

// StickyColumnPolicy controls how a cursor move updates the column that
// vertical motions aim for.
type StickyColumnPolicy int

const (
	// StickyNever keeps the current sticky column.
	StickyNever StickyColumnPolicy = iota

	// StickyOnChange recomputes the sticky column from the new position.
	StickyOnChange

	// StickyEndOfLine makes vertical motions stick to the end of each line.
	StickyEndOfLine
)

// Reserved mark names.
const (
	MarkLastChangeStart = '['
	MarkLastChangeEnd   = ']'
	MarkLastEdit        = '.'
	MarkPreviousContext = '\''
	MarkSelectionStart  = '<'
	MarkSelectionEnd    = '>'
)

// CursorService owns the caret and the named marks.
type CursorService interface {
	Position() int
	SetPosition(offset int, policy StickyColumnPolicy)

	// StickyColumn is the display column vertical motions try to keep.
	// A negative value means the end of the line.
	StickyColumn() int

	Mark(name rune) (int, bool)
	SetMark(name rune, offset int)
	MarkNames() []rune
}

// SelectionKind classifies a visual selection.
type SelectionKind int

const (
	SelectCharacters SelectionKind = iota
	SelectLines
	SelectBlock
)

// Selection is a visual selection. Anchor is where it started and Head is
// where the cursor is; Head may precede Anchor.
type Selection struct {
	Anchor int
	Head   int
	Kind   SelectionKind
}

// SelectionService reads and writes the visual selection.
type SelectionService interface {
	Selection() (Selection, bool)
	SetSelection(sel Selection)
	ClearSelection()
}

// HistoryService groups buffer changes into undoable units.
type HistoryService interface {
	// BeginCompoundChange opens a unit. Calls nest; the unit closes when the
	// outermost EndCompoundChange runs.
	BeginCompoundChange()
	EndCompoundChange()

	Undo() error
	Redo() error
}

// UserInterface is the status and message area.
type UserInterface interface {
	SetErrorMessage(msg string)
	ErrorMessage() string

	SetInfoMessage(msg string)
	InfoMessage() string

	// SetLastCommandResult records a message produced by a command. The
	// dispatcher shows it in place of the pending keys and then clears it.
	SetLastCommandResult(msg string)
	LastCommandResult() (string, bool)
	ClearLastCommandResult()

	// SetCommandLine shows pending keys or command line text.
	SetCommandLine(text string)
	CommandLine() string

	SetModeName(name string)
	ModeName() string
}

// ConfigChange describes an option update.
type ConfigChange struct {
	Name string
	Old  string
	New  string
}

// Subscription can be cancelled.
type Subscription interface {
	Unsubscribe()
}

// Configuration is option lookup with change notification.
type Configuration interface {
	NewLine() string
	MatchPairs() []string
	ShiftWidth() int
	TabStop() int
	ExpandTab() bool
	IgnoreCase() bool
	SmartCase() bool
	WrapScan() bool

	Get(name string) (string, bool)
	Set(name, value string) error

	// Subscribe registers fn for every option change.
	Subscribe(fn func(ConfigChange)) Subscription
}

// Clipboard is the system clipboard.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Platform bundles the host capabilities for one buffer.
type Platform interface {
	Content() TextContent
	Cursor() CursorService
	Selection() SelectionService
	History() HistoryService
	UI() UserInterface
	Configuration() Configuration
	Clipboard() Clipboard

	// FileName is the buffer's file, read through the % register.
	FileName() string
}
