package memory

import (
	"github.com/dshills/modal/internal/platform"
)

// UI records messages instead of drawing them.
type UI struct {
	errorMessage string
	infoMessage  string
	result       string
	hasResult    bool
	commandLine  string
	modeName     string
}

var _ platform.UserInterface = (*UI)(nil)

func (u *UI) SetErrorMessage(msg string) { u.errorMessage = msg }
func (u *UI) ErrorMessage() string       { return u.errorMessage }
func (u *UI) SetInfoMessage(msg string)  { u.infoMessage = msg }
func (u *UI) InfoMessage() string        { return u.infoMessage }
func (u *UI) SetCommandLine(text string) { u.commandLine = text }
func (u *UI) CommandLine() string        { return u.commandLine }
func (u *UI) SetModeName(name string)    { u.modeName = name }
func (u *UI) ModeName() string           { return u.modeName }

func (u *UI) SetLastCommandResult(msg string) {
	u.result = msg
	u.hasResult = true
}

func (u *UI) LastCommandResult() (string, bool) {
	return u.result, u.hasResult
}

func (u *UI) ClearLastCommandResult() {
	u.result = ""
	u.hasResult = false
}

// Clipboard is a process-local clipboard.
type Clipboard struct {
	text string
}

func (c *Clipboard) Read() (string, error) { return c.text, nil }

func (c *Clipboard) Write(text string) error {
	c.text = text
	return nil
}
