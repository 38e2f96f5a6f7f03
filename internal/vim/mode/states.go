package mode

import (
	"sync"

	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// States caches the initial command state of each mode. A table is built
// on first request and reused by every later mode instance of the session.
type States struct {
	mu    sync.Mutex
	built map[string]state.State[vim.Command]
}

// NewStates creates an empty cache.
func NewStates() *States {
	return &States{built: make(map[string]state.State[vim.Command])}
}

// Get returns the state cached under name, building it first if needed.
func (s *States) Get(name string, build func() state.State[vim.Command]) state.State[vim.Command] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.built[name]; ok {
		return st
	}
	st := build()
	s.built[name] = st
	return st
}

// Len returns the number of cached states.
func (s *States) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.built)
}
