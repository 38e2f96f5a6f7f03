package script

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/mode"
	"github.com/dshills/modal/internal/vim/surround"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by a closed runtime.
var ErrClosed = errors.New("script runtime is closed")

// Host is what scripts act on.
type Host struct {
	Editor     vim.Editor
	Keymaps    *keymap.Registry
	Evaluators *mode.Evaluators
	Surround   *surround.Registry
}

// Runtime owns a Lua state. It is not safe for concurrent use; the
// session calls it from its own dispatch path.
type Runtime struct {
	L       *lua.LState
	host    Host
	timeout time.Duration
	logger  *slog.Logger
	depth   int
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout sets the time a run may take. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithLogger sets the logger print writes to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// New creates a runtime with the modal API installed.
func New(host Host, opts ...Option) *Runtime {
	r := &Runtime{host: host, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	r.L = L
	r.install()
	return r
}

// Register adds :source and :lua to the ex commands.
func (r *Runtime) Register(e *mode.Evaluators) {
	e.RegisterFunc("so[urce]", func(_ vim.Editor, cmd mode.ExCommand) error {
		if cmd.Args == "" {
			return vim.Errorf("argument required")
		}
		return r.Source(cmd.Args)
	})
	e.RegisterFunc("lua", func(_ vim.Editor, cmd mode.ExCommand) error {
		return r.Run(cmd.Args)
	})
}

// Source runs a script file.
func (r *Runtime) Source(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return vim.Errorf("cannot source %s: %v", path, err)
	}
	r.logger.Debug("sourcing script", "path", path)
	return r.do(path, func() error { return r.L.DoString(string(code)) })
}

// Run executes a chunk of Lua.
func (r *Runtime) Run(code string) error {
	return r.do("lua", func() error { return r.L.DoString(code) })
}

// do runs fn with the timeout of the outermost run. Scripts may run
// scripts through modal.exec; those share the outer deadline.
func (r *Runtime) do(name string, fn func() error) (err error) {
	if r.closed {
		return ErrClosed
	}
	if r.depth == 0 && r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		r.L.SetContext(ctx)
		defer func() {
			r.L.RemoveContext()
			cancel()
		}()
	}
	r.depth++
	defer func() {
		r.depth--
		if p := recover(); p != nil {
			err = vim.Errorf("%s: lua panic: %v", name, p)
		}
	}()

	if err := fn(); err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			return vim.Errorf("%s: %s", name, apiErr.Object.String())
		}
		return vim.Errorf("%s: %v", name, err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runtime) print(L *lua.LState) int {
	args := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		args = append(args, L.ToStringMeta(L.Get(i)).String())
	}
	msg := strings.Join(args, "\t")
	r.logger.Info("script output", "text", msg)
	if r.host.Editor != nil {
		r.host.Editor.UI().SetInfoMessage(msg)
	}
	return 0
}
