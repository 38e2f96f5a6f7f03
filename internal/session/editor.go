package session

import (
	"log/slog"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

// The vim.Editor methods are called by commands while a stroke is being
// handled and do not take the session lock.

func (s *Session) Content() platform.TextContent         { return s.platform.Content() }
func (s *Session) Cursor() platform.CursorService        { return s.platform.Cursor() }
func (s *Session) Selection() platform.SelectionService  { return s.platform.Selection() }
func (s *Session) History() platform.HistoryService      { return s.platform.History() }
func (s *Session) UI() platform.UserInterface            { return s.platform.UI() }
func (s *Session) Configuration() platform.Configuration { return s.platform.Configuration() }
func (s *Session) Registers() *vim.RegisterManager       { return s.registers }
func (s *Session) Listeners() *vim.Listeners             { return &s.listeners }
func (s *Session) Logger() *slog.Logger                  { return s.logger }

func (s *Session) Position() int { return s.platform.Cursor().Position() }

func (s *Session) SetPosition(offset int, policy platform.StickyColumnPolicy) {
	s.platform.Cursor().SetPosition(offset, policy)
}

func (s *Session) ChangeMode(name string, hints ...vim.Hint) error {
	return s.modes.Switch(name, hints...)
}

func (s *Session) ModeName() string { return s.modes.CurrentName() }

// FeedKeys queues strokes behind the one being handled. They are
// remapped like typed keys.
func (s *Session) FeedKeys(strokes []key.Stroke) {
	s.fed = append(s.fed, strokes...)
}

func (s *Session) Evaluate(line string) error {
	return s.evaluators.Evaluate(s, line)
}
