package motion

import (
	"unicode"

	"github.com/dshills/modal/internal/vim"
)

// ParagraphForward moves to the next blank line after a paragraph (}).
// Without one it stops at the end of the last line.
func ParagraphForward() vim.Motion {
	return newMotion("paragraph forward", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		last := vim.LastLine(c)
		line := currentLine(ed).Number
		blank := func(n int) bool { return vim.IsBlankLine(c, c.LineInformation(n)) }

		for ; count > 0; count-- {
			for line < last && blank(line) {
				line++
			}
			for line < last && !blank(line) {
				line++
			}
			if line == last && !blank(line) {
				return c.LineInformation(last).End(), nil
			}
		}
		return c.LineInformation(line).Begin, nil
	}, jump)
}

// ParagraphBackward moves to the blank line before a paragraph ({).
func ParagraphBackward() vim.Motion {
	return newMotion("paragraph backward", func(ed vim.Editor, count int) (int, error) {
		c := ed.Content()
		line := currentLine(ed).Number
		blank := func(n int) bool { return vim.IsBlankLine(c, c.LineInformation(n)) }

		for ; count > 0 && line > 0; count-- {
			for line > 0 && blank(line) {
				line--
			}
			for line > 0 && !blank(line) {
				line--
			}
		}
		return c.LineInformation(line).Begin, nil
	}, jump)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentenceStart finds the start of the sentence after p: the first
// non-blank after a sentence terminator and whitespace, or the line after
// a blank line.
func (s scanner) sentenceStart(p int) int {
	n := len(s.text)
	start := p
	ended, spaced := false, s.emptyLine(p)
	for p < n {
		r := s.at(p)
		switch {
		case unicode.IsSpace(r):
			if ended {
				spaced = true
			}
			if !spaced && p != start && s.emptyLine(p) {
				return p
			}
		case spaced:
			return p
		case isSentenceEnd(r):
			ended = true
		case ended && isClosing(r):
		default:
			ended = false
		}
		p = s.next(p)
	}
	return s.end()
}

// sentenceBegin finds the start of the sentence before p.
func (s scanner) sentenceBegin(p int) int {
	if p <= 0 {
		return 0
	}
	p = s.prev(p)
	for p > 0 && unicode.IsSpace(s.at(p)) {
		p = s.prev(p)
	}
	for p > 0 {
		q := s.prev(p)
		r := s.at(q)
		if s.emptyLine(q) {
			return p
		}
		if isSentenceEnd(r) && unicode.IsSpace(s.at(p)) {
			for p < len(s.text) && unicode.IsSpace(s.at(p)) {
				p = s.next(p)
			}
			return p
		}
		p = q
	}
	return 0
}

// isClosing reports characters that may follow a sentence terminator.
func isClosing(r rune) bool {
	return r == ')' || r == ']' || r == '"' || r == '\''
}

// SentenceForward moves to the start of the next sentence ()).
func SentenceForward() vim.Motion {
	return wordMotion("sentence forward", false, scanner.sentenceStart)
}

// SentenceBackward moves to the start of the sentence ((). From the
// start of a sentence it moves to the previous one.
func SentenceBackward() vim.Motion {
	return wordMotion("sentence backward", false, scanner.sentenceBegin)
}

// SentenceBounds returns the start of the sentence holding p and the start
// of the sentence after it.
func SentenceBounds(text string, p int) (start, next int) {
	s := scanner{text: text}
	if p < len(text) {
		start = s.sentenceBegin(s.next(p))
	} else {
		start = s.sentenceBegin(p)
	}
	return start, s.sentenceStart(p)
}
