package motion

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// Pairs is the set of characters "%" jumps between. It follows the
// matchpairs option.
type Pairs struct {
	mu      sync.RWMutex
	closeOf map[rune]rune
	openOf  map[rune]rune
}

// NewPairs builds a set from "open:close" entries. Malformed entries are
// skipped.
func NewPairs(entries []string) *Pairs {
	p := &Pairs{closeOf: make(map[rune]rune), openOf: make(map[rune]rune)}
	for _, e := range entries {
		if opening, closing, ok := splitPair(e); ok {
			p.Add(opening, closing)
		}
	}
	return p
}

// splitPair parses "a:b".
func splitPair(entry string) (rune, rune, bool) {
	a, b, ok := strings.Cut(entry, ":")
	ra, rb := []rune(a), []rune(b)
	if !ok || len(ra) != 1 || len(rb) != 1 {
		return 0, 0, false
	}
	return ra[0], rb[0], true
}

// Add registers a pair.
func (p *Pairs) Add(opening, closing rune) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeOf[opening] = closing
	p.openOf[closing] = opening
}

// Remove unregisters a pair.
func (p *Pairs) Remove(opening, closing rune) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closeOf[opening] == closing {
		delete(p.closeOf, opening)
	}
	if p.openOf[closing] == opening {
		delete(p.openOf, closing)
	}
}

// Match returns the partner of r and whether the partner lies forward.
func (p *Pairs) Match(r rune) (partner rune, forward, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.closeOf[r]; ok {
		return c, true, true
	}
	if o, ok := p.openOf[r]; ok {
		return o, false, true
	}
	return 0, false, false
}

// Follow keeps the set in step with the matchpairs option: entries added to
// the option are added, entries removed are removed.
func (p *Pairs) Follow(cfg platform.Configuration) platform.Subscription {
	return cfg.Subscribe(func(ch platform.ConfigChange) {
		if ch.Name != "matchpairs" {
			return
		}
		old, cur := splitList(ch.Old), splitList(ch.New)
		for _, e := range old {
			if !slices.Contains(cur, e) {
				if opening, closing, ok := splitPair(e); ok {
					p.Remove(opening, closing)
				}
			}
		}
		for _, e := range cur {
			if !slices.Contains(old, e) {
				if opening, closing, ok := splitPair(e); ok {
					p.Add(opening, closing)
				}
			}
		}
	})
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// matching finds the partner of the pair character at pos, honouring
// nesting. It returns false when the pair is unbalanced.
func matching(s scanner, pos int, r, partner rune, forward bool) (int, bool) {
	depth := 1
	p := pos
	for {
		if forward {
			p = s.next(p)
			if p >= len(s.text) {
				return 0, false
			}
		} else {
			if p <= 0 {
				return 0, false
			}
			p = s.prev(p)
		}
		switch s.at(p) {
		case partner:
			depth--
			if depth == 0 {
				return p, true
			}
		case r:
			depth++
		}
	}
}

// Percent jumps to the partner of the first pair character at or after the
// cursor on its line (%). With a count it goes to that percentage of the
// buffer instead.
func Percent(pairs *Pairs) vim.Motion {
	return newMotion("percent", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		if count > vim.NoCount {
			if count > 100 {
				return 0, vim.Errorf("invalid count: %d", count)
			}
			lines := vim.LastLine(c) + 1
			return gotoLine(ed, (count*lines+99)/100), nil
		}
		s := scanner{text: buffer(ed)}
		line := currentLine(ed)
		for p := ed.Position(); p < line.End(); p = s.next(p) {
			r := s.at(p)
			partner, forward, ok := pairs.Match(r)
			if !ok {
				continue
			}
			if dest, ok := matching(s, p, r, partner, forward); ok {
				return dest, nil
			}
			return 0, vim.Errorf("%w: no match for %c", vim.ErrNoMatch, r)
		}
		return 0, vim.Errorf("%w: no bracket on line", vim.ErrNoMatch)
	}, inclusive, jump, rawCount)
}

// unmatched finds the count-th unmatched target scanning from pos, where
// other is the character that opens a nested pair in the scan direction.
func unmatched(s scanner, pos int, target, other rune, forward bool, count int) (int, bool) {
	depth := 0
	p := pos
	for {
		if forward {
			p = s.next(p)
			if p >= len(s.text) {
				return 0, false
			}
		} else {
			if p <= 0 {
				return 0, false
			}
			p = s.prev(p)
		}
		switch s.at(p) {
		case other:
			depth++
		case target:
			if depth > 0 {
				depth--
				continue
			}
			count--
			if count == 0 {
				return p, true
			}
		}
	}
}

// Unmatched goes to the count-th enclosing open or close character ([(, [{,
// ]), ]}).
func Unmatched(opening, closing rune, forward bool) vim.Motion {
	target, other := opening, closing
	if forward {
		target, other = closing, opening
	}
	return newMotion("unmatched "+string(target), func(ed vim.Editor, count int) (int, error) {
		s := scanner{text: buffer(ed)}
		if dest, ok := unmatched(s, ed.Position(), target, other, forward, count); ok {
			return dest, nil
		}
		return 0, vim.Errorf("%w: no unmatched %c", vim.ErrNoMatch, target)
	}, jump)
}

// Method goes to the count-th next or previous brace: "{" for a method
// start ([m ]m), "}" for a method end ([M ]M). It is a token heuristic.
func Method(brace rune, forward bool) vim.Motion {
	return newMotion("method "+string(brace), func(ed vim.Editor, count int) (int, error) {
		s := scanner{text: buffer(ed)}
		p := ed.Position()
		for count > 0 {
			if forward {
				p = s.next(p)
				if p >= len(s.text) {
					return 0, vim.Errorf("%w: %c", vim.ErrCharNotFound, brace)
				}
			} else {
				if p <= 0 {
					return 0, vim.Errorf("%w: %c", vim.ErrCharNotFound, brace)
				}
				p = s.prev(p)
			}
			if s.at(p) == brace {
				count--
			}
		}
		return p, nil
	}, jump)
}

// Section goes to the count-th next or previous line starting with brace:
// "{" for [[ and ]], "}" for [] and ][. Without one it stops at the first
// or last line.
func Section(brace byte, forward bool) vim.Motion {
	return newMotion("section "+string(brace), func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		last := vim.LastLine(c)
		n := currentLine(ed).Number
		for count > 0 {
			if forward {
				if n >= last {
					return c.LineInformation(last).Begin, nil
				}
				n++
			} else {
				if n <= 0 {
					return 0, nil
				}
				n--
			}
			line := c.LineInformation(n)
			if text := vim.LineText(c, line); text != "" && text[0] == brace {
				count--
			}
		}
		return c.LineInformation(n).Begin, nil
	}, jump)
}

// EnclosingPair finds the count-th pair of opening and closing around pos.
// A pair character under pos belongs to the innermost pair.
func EnclosingPair(text string, pos int, opening, closing rune, count int) (left, right int, ok bool) {
	s := scanner{text: text}
	switch s.at(pos) {
	case opening:
		left, ok = pos, true
	case closing:
		left, ok = matching(s, pos, closing, opening, false)
	default:
		left, ok = unmatched(s, pos, opening, closing, false, 1)
	}
	if ok && count > 1 {
		left, ok = unmatched(s, left, opening, closing, false, count-1)
	}
	if !ok {
		return 0, 0, false
	}
	right, ok = matching(s, left, opening, closing, true)
	return left, right, ok
}
