package keymap

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
)

// Resolver tracks which keymap the next stroke of a mode is looked up in.
// It walks a state of keymap names alongside the mode's command state: a
// value reached on the way switches the keymap, and a stroke the state does
// not know leaves the current keymap in place until Reset.
type Resolver struct {
	def     string
	initial state.State[string]
	current state.State[string]
	name    string
}

// NewResolver creates a resolver starting in keymap def. switches may be
// nil for a mode that always uses def.
func NewResolver(def string, switches state.State[string]) *Resolver {
	r := &Resolver{def: def, initial: switches}
	r.Reset()
	return r
}

// KeyMap returns the keymap for the next stroke, or "" when the stroke
// must not be remapped.
func (r *Resolver) KeyMap() string {
	return r.name
}

// Store advances the resolver past s.
func (r *Resolver) Store(s key.Stroke) {
	t, ok := state.Press(r.current, s)
	if !ok {
		r.current = nil
		return
	}
	if name, ok := t.Value(); ok {
		r.name = name
	}
	r.current = t.Next()
}

// Reset returns to the default keymap.
func (r *Resolver) Reset() {
	r.current = r.initial
	r.name = r.def
}
