// Package memory provides an in-memory platform.Platform. Tests drive the
// command engine against it and the terminal host renders it.
package memory

import (
	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/platform"
)

// Platform is an in-memory host for a single buffer.
type Platform struct {
	buf       *Buffer
	ui        *UI
	opts      platform.Configuration
	clipboard platform.Clipboard
	fileName  string
}

var _ platform.Platform = (*Platform)(nil)

// Option configures a Platform.
type Option func(*Platform)

// WithConfiguration sets the option store. The default is config.New().
func WithConfiguration(c platform.Configuration) Option {
	return func(p *Platform) {
		p.opts = c
	}
}

// WithClipboard sets the clipboard.
func WithClipboard(c platform.Clipboard) Option {
	return func(p *Platform) {
		p.clipboard = c
	}
}

// WithFileName sets the name reported through the % register.
func WithFileName(name string) Option {
	return func(p *Platform) {
		p.fileName = name
	}
}

// New creates a platform holding text.
func New(text string, opts ...Option) *Platform {
	p := &Platform{
		buf:       NewBuffer(text),
		ui:        &UI{},
		clipboard: &Clipboard{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.opts == nil {
		p.opts = config.New()
	}
	p.buf.tabstop = p.opts.TabStop
	return p
}

func (p *Platform) Content() platform.TextContent         { return p.buf }
func (p *Platform) Cursor() platform.CursorService        { return p.buf }
func (p *Platform) Selection() platform.SelectionService  { return p.buf }
func (p *Platform) History() platform.HistoryService      { return p.buf }
func (p *Platform) UI() platform.UserInterface            { return p.ui }
func (p *Platform) Configuration() platform.Configuration { return p.opts }
func (p *Platform) Clipboard() platform.Clipboard         { return p.clipboard }
func (p *Platform) FileName() string                      { return p.fileName }

// SetFileName changes the name reported through the % register.
func (p *Platform) SetFileName(name string) { p.fileName = name }

// Buffer returns the underlying buffer.
func (p *Platform) Buffer() *Buffer { return p.buf }

// Messages returns the UI recorder.
func (p *Platform) Messages() *UI { return p.ui }
