package session

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/script"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/macro"
	"github.com/dshills/modal/internal/vim/mode"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/surround"
)

// Hook sees every typed stroke before it is dispatched. Returning true
// consumes the stroke.
type Hook interface {
	PreKey(s key.Stroke) bool
}

// HookFunc adapts a function to Hook.
type HookFunc func(s key.Stroke) bool

func (f HookFunc) PreKey(s key.Stroke) bool { return f(s) }

// Config configures a session.
type Config struct {
	// Logger receives debug output. The default discards it.
	Logger *slog.Logger

	// ScriptTimeout bounds each Lua run. Zero uses script.DefaultTimeout.
	ScriptTimeout time.Duration

	// Evaluators extends the ex commands, as the terminal host does
	// with :w and :q.
	Evaluators func(e *mode.Evaluators)
}

// DefaultConfig returns a configuration with a discarding logger.
func DefaultConfig() Config {
	return Config{}
}

// Session is one editing session over a platform.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	platform platform.Platform
	logger   *slog.Logger

	registers  *vim.RegisterManager
	listeners  vim.Listeners
	modes      *mode.Manager
	evaluators *mode.Evaluators
	keymaps    *keymap.Registry
	translator *keymap.Translator
	surround   *surround.Registry
	recorder   *macro.Recorder
	scripts    *script.Runtime
	pairs      *motion.Pairs

	hooks         []Hook
	fed           []key.Stroke
	subscriptions []platform.Subscription
}

var _ vim.Editor = (*Session)(nil)

// New creates a session over p and enters normal mode.
func New(p platform.Platform, cfg Config) (*Session, error) {
	id := uuid.New()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("session", id.String())

	s := &Session{
		id:         id,
		platform:   p,
		logger:     logger,
		registers:  vim.NewRegisterManager(p.Clipboard(), p.FileName),
		modes:      mode.NewManager(logger),
		evaluators: mode.NewEvaluators(),
		keymaps:    keymap.NewRegistry(),
		surround:   surround.NewRegistry(),
		recorder:   macro.NewRecorder(),
	}
	s.translator = keymap.NewTranslator(s.keymaps)

	opts := p.Configuration()
	s.pairs = motion.NewPairs(opts.MatchPairs())
	s.subscriptions = append(s.subscriptions,
		s.pairs.Follow(opts),
		opts.Subscribe(s.followClipboard),
	)
	clipboard, _ := opts.Get("clipboard")
	s.followClipboard(platform.ConfigChange{Name: "clipboard", New: clipboard})

	scriptOpts := []script.Option{script.WithLogger(logger)}
	if cfg.ScriptTimeout > 0 {
		scriptOpts = append(scriptOpts, script.WithTimeout(cfg.ScriptTimeout))
	}
	s.scripts = script.New(script.Host{
		Editor:     s,
		Keymaps:    s.keymaps,
		Evaluators: s.evaluators,
		Surround:   s.surround,
	}, scriptOpts...)

	mode.RegisterBuiltins(s.evaluators, s.keymaps)
	s.surround.Register(s.evaluators)
	s.scripts.Register(s.evaluators)
	if cfg.Evaluators != nil {
		cfg.Evaluators(s.evaluators)
	}

	s.registerModes()
	s.hooks = append(s.hooks, HookFunc(func(st key.Stroke) bool {
		s.recorder.Record(st)
		return false
	}))
	s.recorder.OnChange(func(bool, rune) { s.showMode() })
	s.modes.OnChange(func(_, _ mode.Mode) { s.showMode() })

	if err := s.modes.Switch(vim.ModeNormal); err != nil {
		return nil, err
	}
	logger.Debug("session started")
	return s, nil
}

func (s *Session) registerModes() {
	states := mode.NewStates()
	tables := mode.NewTables(s.pairs)
	tables.Normal = []state.State[vim.Command]{
		s.surround.Normal(tables.Objects),
		macro.Bindings(s.recorder),
	}
	tables.Visual = []state.State[vim.Command]{s.surround.Visual()}
	s.modes.Register(
		mode.NewNormal(s, states, tables),
		mode.NewVisual(s, states, tables, vim.ModeVisual),
		mode.NewVisual(s, states, tables, vim.ModeVisualLine),
		mode.NewVisual(s, states, tables, vim.ModeVisualBlock),
		mode.NewInsert(s),
		mode.NewCommandLine(s),
		mode.NewSearch(s),
		mode.NewDelimiterPrompt(s),
	)
}

// followClipboard makes the clipboard the default register when the
// clipboard option names it.
func (s *Session) followClipboard(ch platform.ConfigChange) {
	if ch.Name != "clipboard" {
		return
	}
	items := strings.Split(ch.New, ",")
	switch {
	case slices.Contains(items, "unnamedplus"):
		s.registers.SetDefault(vim.RegisterClipboard)
	case slices.Contains(items, "unnamed"):
		s.registers.SetDefault(vim.RegisterSelection)
	default:
		s.registers.SetDefault(vim.RegisterUnnamed)
	}
}

func (s *Session) showMode() {
	m := s.modes.Current()
	if m == nil {
		return
	}
	name := m.DisplayName()
	if reg := s.recorder.Register(); reg != 0 {
		name += " recording @" + string(reg)
	}
	s.platform.UI().SetModeName(name)
}

// ID returns the session identifier carried by its log records.
func (s *Session) ID() uuid.UUID { return s.id }

// Modes returns the mode manager.
func (s *Session) Modes() *mode.Manager { return s.modes }

// Keymaps returns the user mappings.
func (s *Session) Keymaps() *keymap.Registry { return s.keymaps }

// Surround returns the delimiter registry.
func (s *Session) Surround() *surround.Registry { return s.surround }

// Evaluators returns the ex commands.
func (s *Session) Evaluators() *mode.Evaluators { return s.evaluators }

// AddHook adds a hook run before each typed stroke.
func (s *Session) AddHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Close stops following option changes and releases the script runtime.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		sub.Unsubscribe()
	}
	s.subscriptions = nil
	s.scripts.Close()
}

// Press handles a typed stroke and everything it sets off. It reports
// whether the stroke was consumed.
func (s *Session) Press(st key.Stroke) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hooks {
		if h.PreKey(st) {
			return true
		}
	}
	consumed := s.dispatch(keymap.Typed(st))
	s.drain()
	return consumed
}

// Type presses each stroke of a key notation sequence.
func (s *Session) Type(keys string) error {
	strokes, err := key.ParseSequence(keys)
	if err != nil {
		return err
	}
	for _, st := range strokes {
		s.Press(st)
	}
	return nil
}

// Run executes an ex command line outside of key handling, as a host
// does for startup commands.
func (s *Session) Run(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform.UI().SetErrorMessage("")
	err := s.Evaluate(line)
	s.drain()
	return err
}

// Source runs a Lua script file.
func (s *Session) Source(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform.UI().SetErrorMessage("")
	err := s.scripts.Source(path)
	s.drain()
	return err
}

// ApplyFile applies a configuration file: options, mappings, surround
// definitions and scripts.
func (s *Session) ApplyFile(f *config.File) error {
	opts, ok := s.platform.Configuration().(*config.Options)
	if !ok {
		return vim.ConfigErrorf("configuration does not accept files")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform.UI().SetErrorMessage("")
	err := f.Apply(opts, config.Sinks{
		Map:      s.addMapping,
		Surround: s.surround.Define,
		Source:   s.scripts.Source,
	})
	s.drain()
	s.logger.Debug("configuration applied", "path", f.Path, "error", err)
	return err
}

func (s *Session) addMapping(m config.Mapping) error {
	names, err := keymap.ForMode(m.Mode)
	if err != nil {
		return err
	}
	lhs, err := key.ParseSequence(m.LHS)
	if err != nil {
		return err
	}
	rhs, err := key.ParseSequence(m.RHS)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.keymaps.Map(name, keymap.Remapping{LHS: lhs, RHS: rhs, Recursive: !m.NoRemap}); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs an event through the mappings of the current mode and
// hands the result to the mode. The keymap is looked up for each event as
// it comes up, since an earlier one may have changed the mode.
func (s *Session) dispatch(ev keymap.Event) bool {
	consumed := true
	queue := []keymap.Event{ev}
	for len(queue) > 0 {
		ev, queue = queue[0], queue[1:]
		m := s.modes.Current()
		if !ev.Remap {
			if !m.Press(ev.Stroke) {
				consumed = false
			}
			continue
		}
		out, err := s.translator.Press(m.KeyMap(), ev, m)
		if err != nil {
			s.logger.Debug("mapping failed", "error", err)
			s.platform.UI().SetErrorMessage(vim.Message(err))
			return true
		}
		queue = append(out, queue...)
	}
	return consumed
}

// drain handles fed keys. Keys fed while handling one come before the
// rest, so a macro calling a macro runs it in place. A failing command
// drops what is left, the way an error ends a macro.
func (s *Session) drain() {
	ui := s.platform.UI()
	handled := 0
	for len(s.fed) > 0 {
		if ui.ErrorMessage() != "" {
			s.logger.Debug("dropping fed keys", "count", len(s.fed))
			s.fed = nil
			return
		}
		if handled >= macro.MaxStrokes {
			s.fed = nil
			ui.SetErrorMessage("too many fed keys")
			return
		}
		next, rest := s.fed[0], s.fed[1:]
		s.fed = nil
		handled++
		s.dispatch(keymap.Event{Stroke: next.AsVirtual(), Remap: true})
		s.fed = append(s.fed, rest...)
	}
}
