package mode

import (
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vim"
)

// prompt is the one-line editor shared by the command line, search and
// delimiter prompt modes. submit runs with the typed text after the mode
// has handed control back to normal mode.
type prompt struct {
	ed     vim.Editor
	prefix string
	text   []rune
	next   func(s key.Stroke)
	submit func(text string) error

	// exit, when set, replaces submit: it turns the text into the hints
	// normal mode is entered with.
	exit func(text string) ([]vim.Hint, error)

	// fromVisual is set when the prompt was opened over a selection.
	fromVisual bool
}

func (p *prompt) start(prefix, text string, hints []vim.Hint) {
	p.prefix = prefix
	p.text = []rune(text)
	p.next = nil
	_, p.fromVisual = hint[vim.FromVisual](hints)
	p.show()
}

func (p *prompt) stop() {
	p.ed.UI().SetCommandLine("")
}

// Text returns the text typed so far.
func (p *prompt) Text() string {
	return string(p.text)
}

func (p *prompt) CursorStyle() CursorStyle { return CursorBar }

// KeyMap is "": the prompts have no keymap of their own.
func (p *prompt) KeyMap() string               { return "" }
func (p *prompt) AddKeyToMapBuffer(key.Stroke) {}
func (p *prompt) CleanMapBuffer(bool)          {}

func (p *prompt) show() {
	p.ed.UI().SetCommandLine(p.prefix + string(p.text))
}

func (p *prompt) Press(s key.Stroke) bool {
	ed := p.ed
	if !s.Virtual {
		ed.UI().SetErrorMessage("")
	}
	if next := p.next; next != nil {
		p.next = nil
		next(s)
		p.show()
		return true
	}

	switch {
	case is(s, key.Special(key.KeyEscape), key.Ctrl('c'), key.Ctrl('[')):
		p.cancel()
		return true
	case is(s, key.Special(key.KeyEnter), key.Ctrl('j'), key.Ctrl('m')):
		p.done()
		return true
	case is(s, key.Special(key.KeyBackspace), key.Ctrl('h')):
		if len(p.text) == 0 {
			p.cancel()
			return true
		}
		p.text = p.text[:len(p.text)-1]
	case is(s, key.Ctrl('u')):
		p.text = p.text[:0]
	case is(s, key.Ctrl('w')):
		p.deleteWord()
	case is(s, key.Ctrl('r')):
		p.next = p.insertRegister
	case is(s, key.Ctrl('v')):
		p.next = func(s key.Stroke) {
			if ch, ok := s.Character(); ok {
				p.text = append(p.text, ch)
			}
		}
	case s.IsPrintable():
		p.text = append(p.text, s.Rune)
	default:
		return false
	}
	p.show()
	return true
}

func (p *prompt) cancel() {
	if err := p.ed.ChangeMode(vim.ModeNormal); err != nil {
		p.ed.UI().SetErrorMessage(vim.Message(err))
	}
}

func (p *prompt) done() {
	ed := p.ed
	text := string(p.text)
	var err error
	if p.exit != nil {
		var hints []vim.Hint
		if hints, err = p.exit(text); err == nil {
			err = ed.ChangeMode(vim.ModeNormal, hints...)
		} else {
			p.cancel()
		}
	} else if err = ed.ChangeMode(vim.ModeNormal); err == nil {
		err = p.submit(text)
	}
	if err != nil {
		ed.Logger().Debug("prompt failed", "mode", p.prefix, "text", text, "error", err)
		ed.UI().SetErrorMessage(vim.Message(err))
	}
}

func (p *prompt) deleteWord() {
	n := len(p.text)
	for n > 0 && unicode.IsSpace(p.text[n-1]) {
		n--
	}
	if n > 0 {
		class := vim.ClassOf(p.text[n-1], false)
		for n > 0 && vim.ClassOf(p.text[n-1], false) == class {
			n--
		}
	}
	p.text = p.text[:n]
}

func (p *prompt) insertRegister(s key.Stroke) {
	ch, ok := s.Character()
	if !ok {
		return
	}
	reg, err := p.ed.Registers().Register(ch)
	if err != nil {
		p.ed.UI().SetErrorMessage(vim.Message(err))
		return
	}
	text := strings.ReplaceAll(reg.Content().String(), "\n", "\r")
	p.text = append(p.text, []rune(text)...)
}
