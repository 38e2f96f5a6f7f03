package state

import (
	"sync"

	"github.com/dshills/modal/internal/input/key"
)

// Dynamic is a state that accepts new bindings after construction. It is
// used by registries that users can extend at runtime, such as surround
// delimiters. Registration must happen between dispatch cycles.
type Dynamic[T any] struct {
	mu       sync.RWMutex
	bindings map[key.Code]Transition[T]
}

// NewDynamic creates a dynamic state with initial bindings.
func NewDynamic[T any](bindings ...Binding[T]) *Dynamic[T] {
	d := &Dynamic[T]{bindings: make(map[key.Code]Transition[T], len(bindings))}
	d.Add(bindings...)
	return d
}

// Add registers bindings. The last writer for a stroke wins.
func (d *Dynamic[T]) Add(bindings ...Binding[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range bindings {
		d.bindings[b.code] = b.transition
	}
}

// Remove deletes the binding for a stroke.
func (d *Dynamic[T]) Remove(s key.Stroke) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.bindings[s.Code()]; !ok {
		return false
	}
	delete(d.bindings, s.Code())
	return true
}

// Len returns the number of bindings.
func (d *Dynamic[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.bindings)
}

func (d *Dynamic[T]) Press(s key.Stroke) (Transition[T], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.bindings[s.Code()]
	return t, ok
}

func (d *Dynamic[T]) Keys() []key.Code {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedCodes(d.bindings)
}
