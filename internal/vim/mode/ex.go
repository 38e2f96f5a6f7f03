package mode

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// LineRange is an inclusive range of zero-based line numbers.
type LineRange struct {
	Start int
	End   int
}

// Lines returns the number of lines in the range.
func (r LineRange) Lines() int {
	return r.End - r.Start + 1
}

// ExCommand is a parsed command line.
type ExCommand struct {
	// Line is the text as typed, without the leading colon.
	Line string

	// Range is nil when the command was typed without one.
	Range *LineRange

	// Name is the full name of the evaluator that matched.
	Name string
	Bang bool
	Args string
}

// Evaluator runs an ex command.
type Evaluator interface {
	Evaluate(ed vim.Editor, cmd ExCommand) error
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ed vim.Editor, cmd ExCommand) error

func (f EvaluatorFunc) Evaluate(ed vim.Editor, cmd ExCommand) error {
	return f(ed, cmd)
}

type evaluatorEntry struct {
	full     string
	shortest string
	ev       Evaluator
}

// Evaluators is the registry of ex commands. Commands may be abbreviated
// down to the part of their name written before the bracket, so that
// "s[ubstitute]" answers to s, su, ... substitute.
type Evaluators struct {
	mu      sync.RWMutex
	entries map[string]evaluatorEntry
}

// NewEvaluators creates an empty registry.
func NewEvaluators() *Evaluators {
	return &Evaluators{entries: make(map[string]evaluatorEntry)}
}

// Register adds ev under spec. A registration with the same full name
// replaces the previous one.
func (e *Evaluators) Register(spec string, ev Evaluator) {
	shortest, rest, bracket := strings.Cut(spec, "[")
	full := shortest
	if bracket {
		full += strings.TrimSuffix(rest, "]")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[full] = evaluatorEntry{full: full, shortest: shortest, ev: ev}
}

// RegisterFunc adds fn under spec.
func (e *Evaluators) RegisterFunc(spec string, fn func(ed vim.Editor, cmd ExCommand) error) {
	e.Register(spec, EvaluatorFunc(fn))
}

// Lookup resolves a possibly abbreviated name. An exact name wins;
// otherwise the shortest full name the abbreviation is allowed for.
func (e *Evaluators) Lookup(name string) (string, Evaluator, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if en, ok := e.entries[name]; ok {
		return en.full, en.ev, true
	}
	var best *evaluatorEntry
	for _, en := range e.entries {
		if !strings.HasPrefix(en.full, name) || len(name) < len(en.shortest) {
			continue
		}
		if best == nil || len(en.full) < len(best.full) || (len(en.full) == len(best.full) && en.full < best.full) {
			best = &en
		}
	}
	if best == nil {
		return "", nil, false
	}
	return best.full, best.ev, true
}

// Names returns the full names of the registered commands, sorted.
func (e *Evaluators) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.entries))
	for name := range e.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate parses line and runs the matching command. A range on its own
// moves the cursor to the last line of the range.
func (e *Evaluators) Evaluate(ed vim.Editor, line string) error {
	line = strings.TrimLeft(line, " \t:")
	if line == "" {
		return nil
	}
	cmd := ExCommand{Line: line}
	r, rest, err := parseRange(ed, line)
	if err != nil {
		return err
	}
	cmd.Range = r
	rest = strings.TrimLeft(rest, " \t")

	if rest == "" {
		if r == nil {
			return nil
		}
		return jumpToLine(ed, r.End)
	}

	name, rest := splitName(rest)
	if strings.HasPrefix(rest, "!") {
		cmd.Bang = true
		rest = rest[1:]
	}
	full, ev, ok := e.Lookup(name)
	if !ok {
		return vim.Errorf("not an editor command: %s", line)
	}
	cmd.Name = full
	cmd.Args = strings.TrimSpace(rest)
	if full == "substitute" || full == "&" {
		cmd.Args = strings.TrimLeft(rest, " \t")
	}
	ed.Logger().Debug("ex command", "name", full, "args", cmd.Args)
	return ev.Evaluate(ed, cmd)
}

// splitName takes a run of letters, or one other character, as the name.
func splitName(s string) (string, string) {
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	if i == 0 {
		return s[:1], s[1:]
	}
	return s[:i], s[i:]
}

func jumpToLine(ed vim.Editor, n int) error {
	c := ed.Content()
	ed.Cursor().SetMark(platform.MarkPreviousContext, ed.Position())
	ed.SetPosition(vim.FirstNonBlank(c, c.LineInformation(n)), platform.StickyOnChange)
	return nil
}

// parseRange reads "%" or one or two addresses separated by a comma or
// semicolon. Addresses are ".", "$", a line number or a mark, each
// optionally followed by +n and -n offsets.
func parseRange(ed vim.Editor, s string) (*LineRange, string, error) {
	c := ed.Content()
	last := vim.LastLine(c)
	if rest, ok := strings.CutPrefix(s, "%"); ok {
		return &LineRange{Start: 0, End: last}, rest, nil
	}
	start, rest, ok, err := parseAddress(ed, s)
	if err != nil || !ok {
		return nil, s, err
	}
	r := &LineRange{Start: start, End: start}
	if len(rest) > 0 && (rest[0] == ',' || rest[0] == ';') {
		end, after, ok, err := parseAddress(ed, rest[1:])
		if err != nil {
			return nil, s, err
		}
		if ok {
			r.End = end
			rest = after
		}
	}
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	r.Start = max(0, min(r.Start, last))
	r.End = max(0, min(r.End, last))
	return r, rest, nil
}

func parseAddress(ed vim.Editor, s string) (int, string, bool, error) {
	c := ed.Content()
	current := c.LineInformationOfOffset(ed.Position()).Number
	line, found := current, false

	switch {
	case s == "":
		return 0, s, false, nil
	case s[0] == '.':
		found, s = true, s[1:]
	case s[0] == '$':
		line, found, s = vim.LastLine(c), true, s[1:]
	case s[0] == '\'' && len(s) > 1:
		pos, ok := ed.Cursor().Mark(rune(s[1]))
		if !ok {
			return 0, s, false, vim.Errorf("%w: %c", vim.ErrNoMark, s[1])
		}
		line, found, s = c.LineInformationOfOffset(vim.ClampPosition(c, pos)).Number, true, s[2:]
	case s[0] >= '0' && s[0] <= '9':
		n, rest := leadingNumber(s)
		line, found, s = max(n-1, 0), true, rest
	}

	for len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign := 1
		if s[0] == '-' {
			sign = -1
		}
		n, rest := leadingNumber(s[1:])
		if rest == s[1:] {
			n = 1
		}
		line += sign * n
		found, s = true, rest
	}
	return line, s, found, nil
}

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
