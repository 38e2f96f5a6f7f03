package surround

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// Delimiter is the text put on both sides of a span. Tag delimiters have
// no text of their own: the tag is asked for when the command runs.
type Delimiter struct {
	Left  string
	Right string
	Tag   bool
}

// TagDelimiter builds the delimiters for an HTML tag typed as input, with
// or without the angle brackets. Attributes stay on the opening tag.
func TagDelimiter(input string) (Delimiter, error) {
	input = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(input), "<"), ">")
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Delimiter{}, vim.Errorf("empty tag")
	}
	return Delimiter{Left: "<" + input + ">", Right: "</" + fields[0] + ">"}, nil
}

// Registry maps characters to delimiters. Definitions added at run time
// replace the defaults.
type Registry struct {
	defined *state.Dynamic[Delimiter]
}

// NewRegistry creates a registry holding the default delimiters.
func NewRegistry() *Registry {
	r := &Registry{defined: state.NewDynamic[Delimiter]()}
	pair := func(left, right string, keys ...rune) {
		for _, k := range keys {
			r.Add(k, Delimiter{Left: left, Right: right})
		}
	}
	pair("( ", " )", '(')
	pair("(", ")", ')', 'b')
	pair("{ ", " }", '{')
	pair("{", "}", '}', 'B')
	pair("[ ", " ]", '[')
	pair("[", "]", ']', 'r')
	pair("<", ">", '>', 'a')
	r.Add('<', Delimiter{Tag: true})
	r.Add('t', Delimiter{Tag: true})
	return r
}

// Add binds ch to d.
func (r *Registry) Add(ch rune, d Delimiter) {
	r.defined.Add(state.Leaf(key.Rune(ch), d))
}

var spaceName = regexp.MustCompile(`(?i)<space>`)

// Define adds a delimiter from its :surround form: a one-character key and
// a definition holding the left and right text separated by \r. The right
// side must not be empty. <SPACE> in the definition stands for a space.
func (r *Registry) Define(name, definition string) error {
	ch, size := utf8.DecodeRuneInString(name)
	if size == 0 || size != len(name) {
		return vim.ConfigErrorf("surround key must be a single character: %q", name)
	}
	definition = spaceName.ReplaceAllString(definition, " ")
	definition = strings.ReplaceAll(definition, "\r", `\r`)
	parts := strings.Split(definition, `\r`)
	if len(parts) != 2 {
		return vim.ConfigErrorf("surround definition must contain one \\r: %q", definition)
	}
	if parts[1] == "" {
		return vim.ConfigErrorf("surround definition has no right side: %q", definition)
	}
	r.Add(ch, Delimiter{Left: parts[0], Right: parts[1]})
	return nil
}

// Lookup returns the delimiter for ch.
func (r *Registry) Lookup(ch rune) (Delimiter, bool) {
	tr, ok := r.State().Press(key.Rune(ch))
	if !ok {
		return Delimiter{}, false
	}
	return tr.Value()
}

// State is the table read after ys, cs and S. Characters without a
// definition surround with themselves unless they are letters, digits or
// spaces.
func (r *Registry) State() state.State[Delimiter] {
	return state.Union[Delimiter](r.defined, state.ConvertKey(func(s key.Stroke) (Delimiter, bool) {
		ch := s.Rune
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || unicode.IsSpace(ch) {
			return Delimiter{}, false
		}
		return Delimiter{Left: string(ch), Right: string(ch)}, true
	}))
}
