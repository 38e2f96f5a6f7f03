package operator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// Substitute replaces pattern matches on a range of lines (:s). Without
// Whole it acts on Lines lines from the cursor line.
type Substitute struct {
	Pattern     string
	Replacement string
	Global      bool
	IgnoreCase  bool
	MatchCase   bool
	Whole       bool
	Lines       int
}

// ParseSubstitute parses "/pattern/replacement/flags". Any punctuation
// character may stand in for the slash; the replacement and flags may be
// left out.
func ParseSubstitute(args string) (*Substitute, error) {
	delim, size := utf8.DecodeRuneInString(args)
	if size == 0 || unicode.IsLetter(delim) || unicode.IsDigit(delim) || unicode.IsSpace(delim) || delim == '\\' {
		return nil, vim.Errorf("invalid substitute: %q", args)
	}
	parts := splitUnescaped(args[size:], delim)
	s := &Substitute{Pattern: parts[0]}
	if len(parts) > 1 {
		s.Replacement = parts[1]
	}
	if len(parts) > 2 {
		for _, f := range strings.TrimSpace(parts[2]) {
			switch f {
			case 'g':
				s.Global = true
			case 'i':
				s.IgnoreCase = true
			case 'I':
				s.MatchCase = true
			default:
				return nil, vim.Errorf("invalid substitute flag: %c", f)
			}
		}
	}
	return s, nil
}

// splitUnescaped splits s on delim into at most three parts. A backslash
// escapes the delimiter and is dropped before it.
func splitUnescaped(s string, delim rune) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			if r != delim {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == delim && len(parts) < 2:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(parts, cur.String())
}

func (s *Substitute) Execute(ed vim.Editor) error {
	regs := ed.Registers()
	pattern := s.Pattern
	if pattern == "" {
		if regs.Search() == nil {
			return vim.Errorf("%w: no previous search", vim.ErrNoPrevious)
		}
		pattern = regs.Search().Pattern
	}
	flagged := pattern
	switch {
	case s.IgnoreCase:
		flagged = `\c` + pattern
	case s.MatchCase:
		flagged = `\C` + pattern
	}
	re, err := vim.CompilePattern(flagged, ed.Configuration())
	if err != nil {
		return err
	}
	template := expandTemplate(s.Replacement, ed.Configuration().NewLine())

	c := ed.Content()
	first := c.LineInformationOfOffset(ed.Position()).Number
	last := min(first+vim.Count(s.Lines)-1, vim.LastLine(c))
	if s.Whole {
		first, last = 0, vim.LastLine(c)
	}

	regs.SetSearch(&vim.Search{Pattern: pattern})
	regs.SetLastSubstitution(s)
	changed := -1
	err = vim.Change(ed, func() error {
		for n := last; n >= first; n-- {
			line := c.LineInformation(n)
			text := vim.LineText(c, line)
			out, ok := replaceLine(re, text, template, s.Global)
			if !ok {
				continue
			}
			if err := c.Replace(line.Begin, line.Length, out); err != nil {
				return err
			}
			if changed < 0 {
				changed = n
			}
		}
		if changed < 0 {
			return nil
		}
		line := c.LineInformation(changed)
		setChangeMarks(ed, c.LineInformation(first).Begin, line.End())
		ed.SetPosition(vim.FirstNonBlank(c, line), platform.StickyOnChange)
		return nil
	})
	if err != nil {
		return err
	}
	if changed < 0 {
		return vim.Errorf("%w: %s", vim.ErrNoMatch, pattern)
	}
	return nil
}

func (s *Substitute) WithCount(n int) vim.Command {
	cp := *s
	cp.Lines = vim.MultiplyCount(s.Lines, n)
	return &cp
}

// replaceLine substitutes the first match of re in text, or every match
// when global is set.
func replaceLine(re *regexp.Regexp, text, template string, global bool) (string, bool) {
	n := 1
	if global {
		n = -1
	}
	matches := re.FindAllStringSubmatchIndex(text, n)
	if len(matches) == 0 {
		return text, false
	}
	var out []byte
	prev := 0
	for _, m := range matches {
		out = append(out, text[prev:m[0]]...)
		out = re.ExpandString(out, template, text, m)
		prev = m[1]
	}
	return string(append(out, text[prev:]...)), true
}

// expandTemplate turns a Vim replacement into a regexp template: & and \0
// are the whole match, \1 to \9 are groups and \r or \n break the line.
func expandTemplate(rep, nl string) string {
	var b strings.Builder
	for i := 0; i < len(rep); i++ {
		ch := rep[i]
		switch {
		case ch == '$':
			b.WriteString("$$")
		case ch == '&':
			b.WriteString("${0}")
		case ch == '\\' && i+1 < len(rep):
			i++
			switch next := rep[i]; {
			case next >= '0' && next <= '9':
				b.WriteString("${" + string(next) + "}")
			case next == 'r' || next == 'n':
				b.WriteString(nl)
			case next == 't':
				b.WriteByte('\t')
			case next == '$':
				b.WriteString("$$")
			default:
				b.WriteByte(next)
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// RepeatSubstitution runs the last substitution again on the cursor line
// (&) or on every line (g&).
type RepeatSubstitution struct {
	Whole bool
	count int
}

func (r *RepeatSubstitution) Execute(ed vim.Editor) error {
	last, ok := ed.Registers().LastSubstitution().(*Substitute)
	if !ok {
		return vim.Errorf("%w: no previous substitute", vim.ErrNoPrevious)
	}
	s := *last
	s.Whole = r.Whole
	s.Lines = r.count
	s.Global = r.Whole && last.Global
	return s.Execute(ed)
}

func (r *RepeatSubstitution) WithCount(n int) vim.Command {
	cp := *r
	cp.count = vim.MultiplyCount(r.count, n)
	return &cp
}

func (r *RepeatSubstitution) Repetition() vim.Command { return r }
