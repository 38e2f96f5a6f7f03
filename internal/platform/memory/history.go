package memory

import (
	"errors"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("already at oldest change")
	ErrNothingToRedo = errors.New("already at newest change")
)

// edit is one recorded replacement.
type edit struct {
	offset   int
	removed  string
	inserted string
}

// undoEntry is a unit of undo: one replacement, or every replacement made
// inside a compound change.
type undoEntry struct {
	edits  []edit
	cursor int
}

// history manages undo/redo state for a Buffer.
type history struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	depth int
	group *undoEntry

	maxEntries int
}

func newHistory(maxEntries int) *history {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &history{maxEntries: maxEntries}
}

// begin opens a compound change. Calls nest.
func (h *history) begin(cursor int) {
	if h.depth == 0 {
		h.group = &undoEntry{cursor: cursor}
	}
	h.depth++
}

// end closes a compound change. The outermost end pushes the group.
func (h *history) end() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	g := h.group
	h.group = nil
	if len(g.edits) > 0 {
		h.push(g)
	}
}

// record adds an edit to the open group or as its own entry.
func (h *history) record(e edit, cursor int) {
	if h.depth > 0 {
		h.group.edits = append(h.group.edits, e)
		return
	}
	h.push(&undoEntry{edits: []edit{e}, cursor: cursor})
}

func (h *history) push(e *undoEntry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if len(h.undoStack) > h.maxEntries {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxEntries:]
	}
}

func (h *history) popUndo() (*undoEntry, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e, nil
}

func (h *history) popRedo() (*undoEntry, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e, nil
}
