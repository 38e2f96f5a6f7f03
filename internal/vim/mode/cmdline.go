package mode

import (
	"github.com/dshills/modal/internal/vim"
)

// CommandLine is the ":" prompt. The line is run through the editor's
// Evaluate once the prompt has returned to normal mode.
type CommandLine struct {
	prompt
}

var _ Mode = (*CommandLine)(nil)

// NewCommandLine creates the command line mode.
func NewCommandLine(ed vim.Editor) *CommandLine {
	m := &CommandLine{prompt: prompt{ed: ed}}
	m.submit = m.run
	return m
}

func (m *CommandLine) Name() string        { return vim.ModeCommandLine }
func (m *CommandLine) DisplayName() string { return "COMMAND" }

func (m *CommandLine) Enter(hints ...vim.Hint) error {
	h, _ := hint[vim.CommandLineHint](hints)
	m.start(":", h.Text, hints)
	return nil
}

func (m *CommandLine) Leave(...vim.Hint) error {
	m.stop()
	return nil
}

func (m *CommandLine) run(line string) error {
	if line == "" {
		return nil
	}
	m.ed.Registers().SetLastCommandLine(line)
	return m.ed.Evaluate(line)
}
