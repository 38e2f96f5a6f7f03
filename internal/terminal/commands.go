package terminal

import (
	"fmt"
	"os"
	"strings"

	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/mode"
)

var errNotSaved = vim.Errorf("no write since last change (add ! to override)")

// write saves the buffer to the file named in the arguments, or to the
// edited file. The first name given to a scratch buffer becomes its file.
func (h *Host) write(ed vim.Editor, cmd mode.ExCommand) error {
	name := h.platform.FileName()
	path := cmd.Args
	if path == "" {
		path = name
	}
	if path == "" {
		return vim.Errorf("no file name")
	}
	text := h.platform.Buffer().String()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return vim.Errorf("write %s: %w", path, err)
	}
	if name == "" {
		h.platform.SetFileName(path)
		name = path
	}
	if path == name {
		h.saved = text
	}
	lines := ed.Content().LineCount()
	if strings.HasSuffix(text, "\n") {
		lines--
	}
	ed.UI().SetInfoMessage(fmt.Sprintf("%q %dL, %dB written", path, lines, len(text)))
	h.logger.Debug("buffer written", "path", path, "bytes", len(text))
	return nil
}

func (h *Host) quitCommand(_ vim.Editor, cmd mode.ExCommand) error {
	if h.Modified() && !cmd.Bang {
		return errNotSaved
	}
	h.quit = true
	return nil
}

func (h *Host) writeQuit(ed vim.Editor, cmd mode.ExCommand) error {
	if err := h.write(ed, cmd); err != nil {
		return err
	}
	h.quit = true
	return nil
}

// exit writes only when the buffer was changed.
func (h *Host) exit(ed vim.Editor, cmd mode.ExCommand) error {
	if h.Modified() || cmd.Args != "" {
		if err := h.write(ed, cmd); err != nil {
			return err
		}
	}
	h.quit = true
	return nil
}
