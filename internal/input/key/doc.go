// Package key provides keystroke types and Vim key notation for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Stroke: A single key press with modifiers and a virtual flag
//   - Code: The comparable identity of a Stroke, used as a trie key
//
// # Key Notation
//
// Strokes are written in Vim notation: "a", "<C-f>", "<CR>", "<Esc>",
// "<S-Tab>", "<lt>". Sequences concatenate strokes: "d2w", "ciw<Esc>".
//
// # Virtual Strokes
//
// Strokes injected by remapping or macro replay carry Virtual=true. A virtual
// stroke compares equal to its physical twin; the flag only suppresses side
// effects such as clearing the error message.
package key
