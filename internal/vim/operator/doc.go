// Package operator implements the commands that change the buffer:
// operators such as delete, change, yank and shift that act on a text
// object, and the standalone edits built on them (paste, join, replace,
// substitute, undo).
//
// Every buffer change runs inside a compound change so that it undoes as
// one unit.
package operator
