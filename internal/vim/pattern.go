package vim

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/platform"
)

// CompilePattern translates a Vim "magic" pattern to a Go regular
// expression. \( \) \| \+ \= \? \{n,m} are the special forms of their plain
// characters, \< and \> are word boundaries, and \c or \C force case
// folding on or off. Otherwise ignorecase and smartcase decide.
func CompilePattern(pattern string, cfg platform.Configuration) (*regexp.Regexp, error) {
	expr, fold := translatePattern(pattern)
	switch fold {
	case foldOn:
	case foldOff:
	default:
		if cfg != nil && cfg.IgnoreCase() && (!cfg.SmartCase() || !hasUpper(pattern)) {
			fold = foldOn
		}
	}
	if fold == foldOn {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile("(?m)" + expr)
	if err != nil {
		return nil, Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

type foldMode int

const (
	foldDefault foldMode = iota
	foldOn
	foldOff
)

func hasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func translatePattern(pattern string) (string, foldMode) {
	var b strings.Builder
	fold := foldDefault
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			switch n := runes[i]; n {
			case '(', ')', '|', '+', '?':
				b.WriteRune(n)
			case '=':
				b.WriteRune('?')
			case '{':
				b.WriteRune('{')
				for i+1 < len(runes) && runes[i+1] != '}' {
					i++
					if runes[i] != '\\' {
						b.WriteRune(runes[i])
					}
				}
				if i+1 < len(runes) {
					i++
					b.WriteRune('}')
				}
			case '<', '>':
				b.WriteString(`\b`)
			case 'c':
				fold = foldOn
			case 'C':
				fold = foldOff
			case 'n':
				b.WriteString(`\n`)
			case 't':
				b.WriteString(`\t`)
			default:
				if unicode.IsLetter(n) && !strings.ContainsRune("sSdDwWbB", n) {
					b.WriteRune(n)
					continue
				}
				b.WriteRune('\\')
				b.WriteRune(n)
			}
		case r == '[':
			j := i + 1
			if j < len(runes) && runes[j] == '^' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(string(runes[i : j+1]))
			i = j
		case strings.ContainsRune("()|+?{}", r):
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), fold
}
