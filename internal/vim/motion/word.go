package motion

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/vim"
)

// scanner walks a text snapshot by character.
type scanner struct {
	text string
	big  bool
}

func (s scanner) at(p int) rune {
	if p < 0 || p >= len(s.text) {
		return '\n'
	}
	r, _ := utf8.DecodeRuneInString(s.text[p:])
	return r
}

func (s scanner) next(p int) int {
	if p >= len(s.text) {
		return len(s.text)
	}
	_, size := utf8.DecodeRuneInString(s.text[p:])
	return p + size
}

func (s scanner) prev(p int) int {
	if p <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(s.text[:p])
	return p - size
}

func (s scanner) class(p int) vim.CharClass {
	return vim.ClassOf(s.at(p), s.big)
}

// emptyLine reports whether p is the terminator of an empty line. Vim
// treats empty lines as words.
func (s scanner) emptyLine(p int) bool {
	return p < len(s.text) && s.text[p] == '\n' && (p == 0 || s.text[p-1] == '\n')
}

// end returns the last offset a forward scan may stop on: the terminator
// of the last line rather than the position after it.
func (s scanner) end() int {
	n := len(s.text)
	if n > 0 && s.text[n-1] == '\n' {
		return n - 1
	}
	return n
}

// wordStart finds the start of the next word from p.
func (s scanner) wordStart(p int) int {
	n := len(s.text)
	if p >= n {
		return s.end()
	}
	start := p
	if cls := s.class(p); cls != vim.ClassBlank {
		for p < n && s.class(p) == cls {
			p = s.next(p)
		}
	}
	for p < n && unicode.IsSpace(s.at(p)) {
		if p != start && s.emptyLine(p) {
			return p
		}
		p = s.next(p)
	}
	return min(p, s.end())
}

// wordBegin finds the start of the word before p.
func (s scanner) wordBegin(p int) int {
	for p > 0 {
		p = s.prev(p)
		if !unicode.IsSpace(s.at(p)) {
			break
		}
		if s.emptyLine(p) {
			return p
		}
	}
	if unicode.IsSpace(s.at(p)) {
		return p
	}
	cls := s.class(p)
	for p > 0 && s.class(s.prev(p)) == cls {
		p = s.prev(p)
	}
	return p
}

// wordEnd finds the end of the word after p.
func (s scanner) wordEnd(p int) int {
	n := len(s.text)
	p = s.next(p)
	for p < n && unicode.IsSpace(s.at(p)) {
		p = s.next(p)
	}
	if p >= n {
		return s.end()
	}
	cls := s.class(p)
	for {
		q := s.next(p)
		if q >= n || s.class(q) != cls {
			return p
		}
		p = q
	}
}

// wordEndBackward finds the end of the word before p.
func (s scanner) wordEndBackward(p int) int {
	if p < len(s.text) && !unicode.IsSpace(s.at(p)) {
		cls := s.class(p)
		for p > 0 && s.class(s.prev(p)) == cls {
			p = s.prev(p)
		}
	}
	for p > 0 {
		p = s.prev(p)
		if !unicode.IsSpace(s.at(p)) || s.emptyLine(p) {
			return p
		}
	}
	return 0
}

func wordMotion(name string, big bool, step func(scanner, int) int, opts ...option) vim.Motion {
	return newMotion(name, func(ed vim.Editor, count int) (int, error) {
		s := scanner{text: buffer(ed), big: big}
		pos := ed.Position()
		for ; count > 0; count-- {
			pos = step(s, pos)
		}
		return pos, nil
	}, append(opts, func(b *basic) { b.big = big })...)
}

// WordRight moves to the start of the next word (w) or WORD (W).
func WordRight(big bool) vim.Motion {
	return wordMotion("word right", big, scanner.wordStart)
}

// WordLeft moves to the start of the previous word (b) or WORD (B).
func WordLeft(big bool) vim.Motion {
	return wordMotion("word left", big, scanner.wordBegin)
}

// WordEndRight moves to the end of the next word (e) or WORD (E).
func WordEndRight(big bool) vim.Motion {
	return wordMotion("word end right", big, scanner.wordEnd, inclusive)
}

// WordEndLeft moves to the end of the previous word (ge) or WORD (gE).
func WordEndLeft(big bool) vim.Motion {
	return wordMotion("word end left", big, scanner.wordEndBackward, inclusive)
}

// IsWordRight reports whether m is w or W, which "c" turns into e or E.
func IsWordRight(m vim.Motion) (big, ok bool) {
	b, ok := m.(*basic)
	if !ok || b.name != "word right" {
		return false, false
	}
	return b.bigWord(), true
}

// WordEndFor returns the e or E motion carrying m's count.
func WordEndFor(m vim.Motion) vim.Motion {
	b := m.(*basic)
	return vim.MotionWithCount(WordEndRight(b.bigWord()), b.count)
}
