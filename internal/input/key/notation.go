package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single stroke in Vim notation.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Bracketed names: "<CR>", "<Esc>", "<Space>", "<lt>", "<F5>"
//   - With modifiers: "<C-s>", "<A-f>", "<C-S-Tab>", "<M-x>"
func Parse(spec string) (Stroke, error) {
	if spec == "" {
		return Stroke{}, ErrEmptySpec
	}
	strokes, err := ParseSequence(spec)
	if err != nil {
		return Stroke{}, err
	}
	if len(strokes) != 1 {
		return Stroke{}, fmt.Errorf("%w: %q is %d keys", ErrInvalidSpec, spec, len(strokes))
	}
	return strokes[0], nil
}

// MustParse parses a stroke and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Stroke {
	s, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return s
}

// ParseSequence parses a run of strokes such as "d2w" or "ciw<Esc>".
// A '<' that does not start a valid bracketed name is taken literally,
// as Vim does.
func ParseSequence(spec string) ([]Stroke, error) {
	var out []Stroke
	for i := 0; i < len(spec); {
		if spec[i] == '<' {
			if end := strings.IndexByte(spec[i:], '>'); end > 1 {
				if s, err := parseBracketed(spec[i+1 : i+end]); err == nil {
					out = append(out, s)
					i += end + 1
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(spec[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrInvalidSpec, i)
		}
		out = append(out, Rune(r))
		i += size
	}
	return out, nil
}

// MustParseSequence parses a sequence and panics on error.
func MustParseSequence(spec string) []Stroke {
	s, err := ParseSequence(spec)
	if err != nil {
		panic("invalid key sequence: " + spec + ": " + err.Error())
	}
	return s
}

// FormatSequence renders strokes in Vim notation. The result parses back
// into the same codes.
func FormatSequence(strokes []Stroke) string {
	var b strings.Builder
	for _, s := range strokes {
		b.WriteString(s.String())
	}
	return b.String()
}

// parseBracketed parses the inside of "<...>".
func parseBracketed(inner string) (Stroke, error) {
	if inner == "" {
		return Stroke{}, ErrInvalidSpec
	}

	var mods Modifier
	// Modifier prefixes are single letters followed by '-'. The key part may
	// itself be '-' as in "<C-->".
	for len(inner) > 2 && inner[1] == '-' {
		m, ok := modifierFromNotation(inner[:1])
		if !ok {
			return Stroke{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, inner[:1])
		}
		mods = mods.With(m)
		inner = inner[2:]
	}

	lower := strings.ToLower(inner)
	if k, ok := keyNameMap[lower]; ok {
		return Stroke{Key: k, Modifiers: mods}, nil
	}
	if r, ok := runeNameMap[lower]; ok {
		return Stroke{Key: KeyRune, Rune: r, Modifiers: mods.Without(ModShift)}, nil
	}
	if mods == ModNone {
		return Stroke{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, inner)
	}
	r, size := utf8.DecodeRuneInString(inner)
	if size != len(inner) {
		return Stroke{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, inner)
	}
	switch {
	case mods.Has(ModCtrl):
		r = unicode.ToLower(r)
		mods = mods.Without(ModShift)
	case mods.Has(ModShift) && unicode.IsLetter(r):
		r = unicode.ToUpper(r)
		mods = mods.Without(ModShift)
	}
	return Stroke{Key: KeyRune, Rune: r, Modifiers: mods}, nil
}
