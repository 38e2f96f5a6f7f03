package mode

import (
	"github.com/dshills/modal/internal/vim"
)

// DelimiterPrompt reads a delimiter template, such as the tag of a
// surround. The command built from the text runs in normal mode so that
// it is recorded for ".".
type DelimiterPrompt struct {
	prompt
	build func(input string) (vim.Command, error)
}

var _ Mode = (*DelimiterPrompt)(nil)

// NewDelimiterPrompt creates the delimiter prompt mode.
func NewDelimiterPrompt(ed vim.Editor) *DelimiterPrompt {
	m := &DelimiterPrompt{prompt: prompt{ed: ed}}
	m.exit = m.command
	return m
}

func (m *DelimiterPrompt) Name() string        { return vim.ModeDelimiterPrompt }
func (m *DelimiterPrompt) DisplayName() string { return "DELIMITER" }

func (m *DelimiterPrompt) Enter(hints ...vim.Hint) error {
	h, ok := hint[vim.DelimiterHint](hints)
	if !ok || h.Build == nil {
		return vim.Errorf("delimiter prompt without a template")
	}
	m.build = h.Build
	m.start(h.Prompt, "", hints)
	return nil
}

func (m *DelimiterPrompt) Leave(...vim.Hint) error {
	m.stop()
	return nil
}

func (m *DelimiterPrompt) command(text string) ([]vim.Hint, error) {
	cmd, err := m.build(text)
	if err != nil {
		return nil, err
	}
	return []vim.Hint{vim.ExecuteHint{Command: cmd}}, nil
}
