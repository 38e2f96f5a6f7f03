package key

import (
	"unicode"
)

// Stroke is a single key press.
type Stroke struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune strokes.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Virtual marks strokes injected by remapping or macro replay.
	Virtual bool
}

// Code is the comparable identity of a stroke. Two strokes are equal when
// their codes are equal; the virtual flag does not take part.
type Code struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune returns the stroke for a plain character.
func Rune(r rune) Stroke {
	return Stroke{Key: KeyRune, Rune: r}
}

// Special returns the stroke for a special key.
func Special(k Key) Stroke {
	return Stroke{Key: k}
}

// Ctrl returns the stroke for Control plus a character.
func Ctrl(r rune) Stroke {
	return Stroke{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: ModCtrl}
}

// WithModifiers returns a copy of s with the given modifiers.
func (s Stroke) WithModifiers(m Modifier) Stroke {
	s.Modifiers = m
	return s
}

// AsVirtual returns a copy of s flagged as injected.
func (s Stroke) AsVirtual() Stroke {
	s.Virtual = true
	return s
}

// Code returns the identity of the stroke. Shift is part of the character
// for rune keys, so it is dropped from their code.
func (s Stroke) Code() Code {
	c := Code{Key: s.Key, Modifiers: s.Modifiers}
	if s.Key == KeyRune {
		c.Rune = s.Rune
		c.Modifiers = c.Modifiers.Without(ModShift)
	}
	return c
}

// Stroke converts a code back into a physical stroke.
func (c Code) Stroke() Stroke {
	return Stroke{Key: c.Key, Rune: c.Rune, Modifiers: c.Modifiers}
}

// Equals reports whether two strokes have the same identity.
func (s Stroke) Equals(other Stroke) bool {
	return s.Code() == other.Code()
}

// IsRune returns true if this is a character stroke.
func (s Stroke) IsRune() bool {
	return s.Key == KeyRune && s.Rune != 0
}

// IsPrintable returns true for unmodified printable characters, the strokes
// that insert text or name a register, mark or find target.
func (s Stroke) IsPrintable() bool {
	if !s.IsRune() {
		return false
	}
	if s.Modifiers.Without(ModShift) != ModNone {
		return false
	}
	return unicode.IsPrint(s.Rune)
}

// Character returns the text the stroke produces in insert contexts.
// Tab and Enter produce their control characters; other specials produce
// nothing.
func (s Stroke) Character() (rune, bool) {
	switch {
	case s.IsPrintable():
		return s.Rune, true
	case s.Key == KeyTab && s.Modifiers == ModNone:
		return '\t', true
	case s.Key == KeyEnter && s.Modifiers == ModNone:
		return '\n', true
	}
	return 0, false
}

// String returns the stroke in Vim key notation.
func (s Stroke) String() string {
	mods := s.Modifiers
	if s.Key == KeyRune {
		mods = mods.Without(ModShift)
		if mods == ModNone {
			switch s.Rune {
			case '<':
				return "<lt>"
			case 0:
				return "<Nul>"
			}
			if unicode.IsPrint(s.Rune) {
				return string(s.Rune)
			}
		}
		name := string(s.Rune)
		switch s.Rune {
		case ' ':
			name = "Space"
		case '<':
			name = "lt"
		}
		return "<" + mods.notation() + name + ">"
	}
	return "<" + mods.notation() + s.Key.String() + ">"
}

// Display returns the form echoed in the pending command display.
func (s Stroke) Display() string {
	if s.IsPrintable() {
		return string(s.Rune)
	}
	return s.String()
}

// FixAltGr strips the Control+Alt pair that some platforms report for
// AltGr-composed characters. The boolean is false when the stroke does not
// carry the pair, in which case no retry should happen.
func FixAltGr(s Stroke) (Stroke, bool) {
	if s.Key != KeyRune || !s.Modifiers.Has(altGr) {
		return s, false
	}
	fixed := s
	fixed.Modifiers = s.Modifiers.Without(altGr)
	return fixed, true
}
