// Package keymap holds user key mappings and the machinery that applies
// them.
//
// Each mode names the keymap a stroke is looked up in through a Resolver:
// normal mode uses "nmap", switches to "omap" after an operator key and to
// no keymap after keys that take a literal character, such as f or r.
// Mappings live in a Registry keyed by keymap name. A Translator walks the
// mappings of the resolved keymap as strokes arrive and replaces a complete
// left-hand side with its right-hand side.
package keymap
