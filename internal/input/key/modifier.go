package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// altGr is the modifier pair some platforms report for AltGr-composed characters.
const altGr = ModCtrl | ModAlt

// Has returns true if m contains all of the specified modifiers.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod && mod != ModNone
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// notation returns the Vim prefix for the modifiers, e.g. "C-A-".
func (m Modifier) notation() string {
	var b strings.Builder
	if m.Has(ModCtrl) {
		b.WriteString("C-")
	}
	if m.Has(ModAlt) {
		b.WriteString("A-")
	}
	if m.Has(ModShift) {
		b.WriteString("S-")
	}
	if m.Has(ModMeta) {
		b.WriteString("M-")
	}
	return b.String()
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// modifierFromNotation maps a single Vim modifier letter to a Modifier.
func modifierFromNotation(s string) (Modifier, bool) {
	switch strings.ToLower(s) {
	case "c":
		return ModCtrl, true
	case "a":
		return ModAlt, true
	case "s":
		return ModShift, true
	case "m", "d":
		return ModMeta, true
	}
	return ModNone, false
}
