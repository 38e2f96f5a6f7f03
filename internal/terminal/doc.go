// Package terminal runs a session on a tcell screen.
//
// The host keeps one buffer in memory, draws it with the status line
// below, and turns tcell key events into strokes for the session. It adds
// the file commands :w, :q, :wq and :x to the ex commands. Work coming
// from other goroutines, such as a configuration reload, is posted to the
// event loop so that it never runs concurrently with a keystroke.
package terminal
