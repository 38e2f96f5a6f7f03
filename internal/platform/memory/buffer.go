package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/modal/internal/platform"
)

// ErrOutOfRange is returned by Replace for offsets outside the buffer.
var ErrOutOfRange = errors.New("offset out of range")

// Buffer is an in-memory text buffer with a cursor, marks, a selection and
// undo history. It implements the text, cursor, selection and history
// capabilities of platform.Platform.
type Buffer struct {
	text       string
	lineStarts []int

	cursor int
	sticky int
	marks  map[rune]int

	selection    platform.Selection
	hasSelection bool

	history *history
	tabstop func() int
}

var (
	_ platform.TextContent      = (*Buffer)(nil)
	_ platform.CursorService    = (*Buffer)(nil)
	_ platform.SelectionService = (*Buffer)(nil)
	_ platform.HistoryService   = (*Buffer)(nil)
)

// NewBuffer creates a buffer holding text with the cursor at offset 0.
func NewBuffer(text string) *Buffer {
	b := &Buffer{
		marks:   make(map[rune]int),
		history: newHistory(0),
		tabstop: func() int { return 8 },
	}
	b.setText(text)
	return b
}

// String returns the whole buffer.
func (b *Buffer) String() string {
	return b.text
}

func (b *Buffer) setText(text string) {
	b.text = text
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
}

// Text returns length bytes starting at offset, clipped to the buffer.
func (b *Buffer) Text(offset, length int) string {
	start := clamp(offset, 0, len(b.text))
	end := clamp(offset+length, start, len(b.text))
	return b.text[start:end]
}

// TextLength returns the buffer size in bytes.
func (b *Buffer) TextLength() int {
	return len(b.text)
}

// Replace substitutes length bytes at offset with text and records the
// change for undo.
func (b *Buffer) Replace(offset, length int, text string) error {
	if offset < 0 || length < 0 || offset+length > len(b.text) {
		return fmt.Errorf("%w: replace %d+%d in %d bytes", ErrOutOfRange, offset, length, len(b.text))
	}
	e := edit{offset: offset, removed: b.text[offset : offset+length], inserted: text}
	b.history.record(e, b.cursor)
	b.apply(e)
	return nil
}

// apply performs an edit and shifts marks and cursor past it.
func (b *Buffer) apply(e edit) {
	b.setText(b.text[:e.offset] + e.inserted + b.text[e.offset+len(e.removed):])

	shift := func(pos int) int {
		switch {
		case pos >= e.offset+len(e.removed):
			return pos + len(e.inserted) - len(e.removed)
		case pos > e.offset:
			return e.offset
		}
		return pos
	}
	for name, pos := range b.marks {
		b.marks[name] = clamp(shift(pos), 0, len(b.text))
	}
	b.cursor = clamp(shift(b.cursor), 0, len(b.text))
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// LineInformation returns metrics for a zero-based line number.
func (b *Buffer) LineInformation(line int) platform.LineInfo {
	line = clamp(line, 0, len(b.lineStarts)-1)
	begin := b.lineStarts[line]
	end := len(b.text)
	if line+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1] - 1
		if end > begin && b.text[end-1] == '\r' {
			end--
		}
	}
	return platform.LineInfo{Number: line, Begin: begin, Length: end - begin}
}

// LineInformationOfOffset returns metrics for the line containing offset.
func (b *Buffer) LineInformationOfOffset(offset int) platform.LineInfo {
	offset = clamp(offset, 0, len(b.text))
	line := sort.Search(len(b.lineStarts), func(i int) bool { return b.lineStarts[i] > offset }) - 1
	return b.LineInformation(line)
}

// Position returns the cursor offset.
func (b *Buffer) Position() int {
	return b.cursor
}

// SetPosition moves the cursor.
func (b *Buffer) SetPosition(offset int, policy platform.StickyColumnPolicy) {
	b.cursor = clamp(offset, 0, len(b.text))
	switch policy {
	case platform.StickyOnChange:
		line := b.LineInformationOfOffset(b.cursor)
		b.sticky = platform.VisualColumn(b.Text(line.Begin, line.Length), b.cursor-line.Begin, b.tabstop())
	case platform.StickyEndOfLine:
		b.sticky = -1
	}
}

// StickyColumn returns the column vertical motions aim for.
func (b *Buffer) StickyColumn() int {
	return b.sticky
}

// Mark returns a named mark.
func (b *Buffer) Mark(name rune) (int, bool) {
	pos, ok := b.marks[name]
	return pos, ok
}

// SetMark sets a named mark.
func (b *Buffer) SetMark(name rune, offset int) {
	b.marks[name] = clamp(offset, 0, len(b.text))
}

// MarkNames returns the names of all set marks, sorted.
func (b *Buffer) MarkNames() []rune {
	names := make([]rune, 0, len(b.marks))
	for name := range b.marks {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Selection returns the visual selection, if any.
func (b *Buffer) Selection() (platform.Selection, bool) {
	return b.selection, b.hasSelection
}

// SetSelection sets the visual selection.
func (b *Buffer) SetSelection(sel platform.Selection) {
	b.selection = sel
	b.hasSelection = true
}

// ClearSelection removes the visual selection.
func (b *Buffer) ClearSelection() {
	b.selection = platform.Selection{}
	b.hasSelection = false
}

// BeginCompoundChange opens an undo unit.
func (b *Buffer) BeginCompoundChange() {
	b.history.begin(b.cursor)
}

// EndCompoundChange closes an undo unit.
func (b *Buffer) EndCompoundChange() {
	b.history.end()
}

// InCompoundChange reports whether an undo unit is open.
func (b *Buffer) InCompoundChange() bool {
	return b.history.depth > 0
}

// Undo reverts the last undo unit and puts the cursor where it began.
func (b *Buffer) Undo() error {
	e, err := b.history.popUndo()
	if err != nil {
		return err
	}
	for i := len(e.edits) - 1; i >= 0; i-- {
		ed := e.edits[i]
		b.apply(edit{offset: ed.offset, removed: ed.inserted, inserted: ed.removed})
	}
	b.SetPosition(b.undoCursor(e), platform.StickyOnChange)
	return nil
}

// Redo reapplies the last undone unit.
func (b *Buffer) Redo() error {
	e, err := b.history.popRedo()
	if err != nil {
		return err
	}
	for _, ed := range e.edits {
		b.apply(ed)
	}
	b.SetPosition(b.undoCursor(e), platform.StickyOnChange)
	return nil
}

// undoCursor puts the cursor at the first changed offset, as Vim does.
func (b *Buffer) undoCursor(e *undoEntry) int {
	pos := e.cursor
	if len(e.edits) > 0 {
		pos = e.edits[0].offset
		for _, ed := range e.edits[1:] {
			pos = min(pos, ed.offset)
		}
	}
	return clamp(pos, 0, len(b.text))
}

// Lines returns the buffer split into lines without terminators.
func (b *Buffer) Lines() []string {
	return strings.Split(strings.ReplaceAll(b.text, "\r\n", "\n"), "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
