// Package vim defines the vocabulary of the modal command engine: the
// Editor facade commands run against, the capability interfaces that
// commands, motions, text objects and operations implement, registers and
// the session's editing memory, and the hints passed between modes.
//
// The concrete motions, text objects, operations and modes live in the
// sub-packages motion, textobj, operator and mode.
//
// # Capabilities
//
// Rather than a type hierarchy, operations implement small interfaces
// selectively:
//
//   - Command: anything that can run (Execute)
//   - Counted[T]: accepts a repeat count (WithCount)
//   - Repeatable: can be replayed by "." (Repetition)
//   - Motion: computes a destination with a border policy and wise-ness
//   - TextObject: computes a TextRange with a content type
//
// The dispatcher depends only on the capabilities it needs.
package vim
