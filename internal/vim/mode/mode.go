package mode

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
)

// CursorStyle is the caret shape a host draws for a mode.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// Mode interprets strokes while it is active.
type Mode interface {
	// Name returns the unique mode identifier, one of the vim.Mode* names.
	Name() string

	// DisplayName returns a human-readable name for the status line.
	DisplayName() string

	// CursorStyle returns the cursor style for this mode.
	CursorStyle() CursorStyle

	// Enter is called when the mode becomes active. Hints come from the
	// command that switched modes.
	Enter(hints ...vim.Hint) error

	// Leave is called when another mode takes over.
	Leave(hints ...vim.Hint) error

	// Press handles one stroke and reports whether it was consumed.
	Press(s key.Stroke) bool

	// KeyMap names the user keymap the next stroke is remapped through,
	// or "" when it must not be remapped.
	KeyMap() string

	keymap.Buffer
}

// ChangeFunc is called after the mode changes.
type ChangeFunc func(from, to Mode)

// Manager holds the registered modes and switches between them.
type Manager struct {
	mu sync.RWMutex

	modes     map[string]Mode
	current   Mode
	previous  Mode
	callbacks []ChangeFunc
	logger    *slog.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{modes: make(map[string]Mode), logger: logger}
}

// Register adds modes. A mode with the same name is replaced.
func (m *Manager) Register(modes ...Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, md := range modes {
		m.modes[md.Name()] = md
	}
}

// Get returns a mode by name, or nil if not found.
func (m *Manager) Get(name string) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[name]
}

// Names returns the registered mode names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.modes))
	for name := range m.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the active mode, or nil before the first switch.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the name of the active mode.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the mode that was active before the current one.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// OnChange registers a callback for mode changes.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Switch leaves the current mode and enters the named one. Both receive
// hints. The new mode is current while its Enter runs, so Enter may itself
// switch modes.
func (m *Manager) Switch(name string, hints ...vim.Hint) error {
	m.mu.RLock()
	next, ok := m.modes[name]
	old := m.current
	m.mu.RUnlock()
	if !ok {
		return vim.Errorf("%w: %s", vim.ErrUnknownMode, name)
	}

	if old != nil {
		if err := old.Leave(hints...); err != nil {
			return fmt.Errorf("leave %s: %w", old.Name(), err)
		}
	}

	m.mu.Lock()
	m.previous = old
	m.current = next
	callbacks := make([]ChangeFunc, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	m.logger.Debug("mode switch", "from", nameOf(old), "to", name)
	if err := next.Enter(hints...); err != nil {
		return fmt.Errorf("enter %s: %w", name, err)
	}

	for _, cb := range callbacks {
		if cb != nil {
			cb(old, next)
		}
	}
	return nil
}

func nameOf(m Mode) string {
	if m == nil {
		return ""
	}
	return m.Name()
}

// hint returns the first hint of type T.
func hint[T vim.Hint](hints []vim.Hint) (T, bool) {
	for _, h := range hints {
		if v, ok := h.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
