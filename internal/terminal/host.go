package terminal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modal/internal/platform/memory"
	"github.com/dshills/modal/internal/session"
	"github.com/dshills/modal/internal/vim/mode"
)

// Config configures a host.
type Config struct {
	// Path is the file edited. Empty means a scratch buffer that can only
	// be written with :w {file}.
	Path string

	Logger        *slog.Logger
	ScriptTimeout time.Duration
}

// Host draws a session on a screen and feeds it the keys typed there.
type Host struct {
	screen   tcell.Screen
	platform *memory.Platform
	session  *session.Session
	logger   *slog.Logger

	saved string

	// top is the first buffer line on screen.
	top  int
	quit bool
}

// New reads cfg.Path, opens a session over it and initializes screen. A
// missing file starts an empty buffer.
func New(screen tcell.Screen, cfg Config) (*Host, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	text := ""
	if cfg.Path != "" {
		data, err := os.ReadFile(cfg.Path)
		switch {
		case err == nil:
			text = string(data)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", cfg.Path, err)
		}
	}

	h := &Host{screen: screen, logger: logger, saved: text}
	h.platform = memory.New(text, memory.WithFileName(cfg.Path))
	s, err := session.New(h.platform, session.Config{
		Logger:        logger,
		ScriptTimeout: cfg.ScriptTimeout,
		Evaluators:    h.registerCommands,
	})
	if err != nil {
		return nil, err
	}
	h.session = s

	if err := screen.Init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.Clear()
	return h, nil
}

// Session returns the session, for startup configuration.
func (h *Host) Session() *session.Session { return h.session }

// Platform returns the buffer host.
func (h *Host) Platform() *memory.Platform { return h.platform }

// Post runs fn on the event loop. It is safe to call from any goroutine.
func (h *Host) Post(fn func()) error {
	return h.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run draws the buffer and handles events until a quit command, or until
// ctx is done.
func (h *Host) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = h.Post(func() { h.quit = true })
	})
	defer stop()

	h.Draw()
	for !h.quit {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		h.Handle(ev)
		h.Draw()
	}
	h.logger.Debug("host stopped")
	return ctx.Err()
}

// Handle processes one event.
func (h *Host) Handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		st, ok := Stroke(ev)
		if !ok {
			h.logger.Debug("unhandled key", "key", ev.Name())
			return
		}
		h.session.Press(st)
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	}
}

// Done reports whether a quit command ran.
func (h *Host) Done() bool { return h.quit }

// Modified reports whether the buffer differs from the file.
func (h *Host) Modified() bool {
	return h.platform.Buffer().String() != h.saved
}

// Close restores the terminal and ends the session.
func (h *Host) Close() {
	h.screen.Fini()
	h.session.Close()
}

func (h *Host) registerCommands(e *mode.Evaluators) {
	e.RegisterFunc("w[rite]", h.write)
	e.RegisterFunc("q[uit]", h.quitCommand)
	e.RegisterFunc("wq", h.writeQuit)
	e.RegisterFunc("x[it]", h.exit)
}
