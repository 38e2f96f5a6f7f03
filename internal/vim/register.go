package vim

import (
	"strings"

	"github.com/dshills/modal/internal/platform"
)

// Register names with special meaning.
const (
	RegisterUnnamed     = '"'
	RegisterYank        = '0'
	RegisterSmallDelete = '-'
	RegisterBlackHole   = '_'
	RegisterClipboard   = '+'
	RegisterSelection   = '*'
	RegisterSearch      = '/'
	RegisterCommandLine = ':'
	RegisterFileName    = '%'
	RegisterInsert      = '.'
	RegisterMacro       = '@'
)

// Register is a named memory cell.
type Register interface {
	Name() rune
	Content() Content
	SetContent(c Content) error
}

// simpleRegister stores content.
type simpleRegister struct {
	name    rune
	content Content
}

func (r *simpleRegister) Name() rune       { return r.name }
func (r *simpleRegister) Content() Content { return r.content }

func (r *simpleRegister) SetContent(c Content) error {
	r.content = c
	return nil
}

// blackHoleRegister discards writes and reads empty.
type blackHoleRegister struct{}

func (blackHoleRegister) Name() rune               { return RegisterBlackHole }
func (blackHoleRegister) Content() Content         { return Content{} }
func (blackHoleRegister) SetContent(Content) error { return nil }

// readOnlyRegister exposes a value maintained elsewhere.
type readOnlyRegister struct {
	name rune
	read func() Content
}

func (r *readOnlyRegister) Name() rune       { return r.name }
func (r *readOnlyRegister) Content() Content { return r.read() }

func (r *readOnlyRegister) SetContent(Content) error {
	return Errorf("%w: %c", ErrReadOnlyRegister, r.name)
}

// appendRegister is the uppercase alias of a named register; writes append.
type appendRegister struct {
	target Register
	name   rune
}

func (r *appendRegister) Name() rune       { return r.name }
func (r *appendRegister) Content() Content { return r.target.Content() }

func (r *appendRegister) SetContent(c Content) error {
	return r.target.SetContent(r.target.Content().Append(c))
}

// clipboardRegister reads and writes the platform clipboard. The content
// type survives a round trip as long as the clipboard still holds the text
// this register wrote.
type clipboardRegister struct {
	name      rune
	clipboard platform.Clipboard
	last      Content
}

func (r *clipboardRegister) Name() rune { return r.name }

func (r *clipboardRegister) Content() Content {
	if r.clipboard == nil {
		return r.last
	}
	text, err := r.clipboard.Read()
	if err != nil {
		return Content{}
	}
	if text == r.last.String() {
		return r.last
	}
	if strings.HasSuffix(text, "\n") {
		return LinesOf(text)
	}
	return TextOf(text)
}

func (r *clipboardRegister) SetContent(c Content) error {
	r.last = c
	if r.clipboard == nil {
		return nil
	}
	if err := r.clipboard.Write(c.String()); err != nil {
		return Errorf("clipboard: %w", err)
	}
	return nil
}
