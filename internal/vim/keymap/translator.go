package keymap

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// MaxDepth bounds the nesting of recursive expansions started by one
// stroke.
const MaxDepth = 1000

// Event is a stroke on its way to a mode. Remap is false for strokes that
// must reach the mode unmapped. Depth counts the expansions that produced
// the stroke.
type Event struct {
	Stroke key.Stroke
	Remap  bool
	Depth  int
}

// Typed wraps a stroke from the user.
func Typed(s key.Stroke) Event {
	return Event{Stroke: s, Remap: true}
}

// Buffer shows the strokes a translator holds while a mapping is
// incomplete.
type Buffer interface {
	AddKeyToMapBuffer(s key.Stroke)
	CleanMapBuffer(succeeded bool)
}

// Translator applies the mappings of a registry to a stream of events.
type Translator struct {
	registry *Registry
	current  state.State[Remapping]
	pending  []Event
}

// NewTranslator creates a translator over r.
func NewTranslator(r *Registry) *Translator {
	return &Translator{registry: r}
}

// Pending reports whether the translator holds the start of a mapping.
func (t *Translator) Pending() bool {
	return t.current != nil
}

// Press feeds ev through the mappings of keymap and returns the events to
// process next, in order. Returned events with Remap set must be fed back
// through Press. An incomplete mapping holds its strokes and returns
// nothing. A stroke that breaks a held sequence releases the first held
// stroke unmapped and returns the others for another pass.
func (t *Translator) Press(keymap string, ev Event, buf Buffer) ([]Event, error) {
	if t.current == nil && (!ev.Remap || keymap == "") {
		ev.Remap = false
		return []Event{ev}, nil
	}

	st := t.current
	if st == nil {
		st = t.registry.State(keymap)
	}
	tr, ok := state.Press(st, ev.Stroke)
	if !ok || !ev.Remap {
		if t.current == nil {
			ev.Remap = false
			return []Event{ev}, nil
		}
		held := append(t.pending, ev)
		t.reset(buf, false)
		first := held[0]
		first.Remap = false
		return append([]Event{first}, held[1:]...), nil
	}

	if m, ok := tr.Value(); ok {
		t.reset(buf, true)
		return expand(m, ev.Depth+1)
	}

	t.pending = append(t.pending, ev)
	t.current = tr.Next()
	if buf != nil {
		buf.AddKeyToMapBuffer(ev.Stroke)
	}
	return nil, nil
}

// Flush releases held strokes unmapped, as when a mode is left.
func (t *Translator) Flush(buf Buffer) []Event {
	held := t.pending
	t.reset(buf, false)
	for i := range held {
		held[i].Remap = false
	}
	return held
}

func (t *Translator) reset(buf Buffer, succeeded bool) {
	if t.current != nil && buf != nil {
		buf.CleanMapBuffer(succeeded)
	}
	t.current = nil
	t.pending = nil
}

// expand returns the right-hand side of m as virtual events. A recursive
// right-hand side that starts with its own left-hand side does not map
// that prefix again.
func expand(m Remapping, depth int) ([]Event, error) {
	if depth > MaxDepth {
		return nil, vim.Errorf("%w: %s", vim.ErrRecursiveMapping, key.FormatSequence(m.LHS))
	}
	prefix := 0
	if m.Recursive && hasPrefix(m.RHS, m.LHS) {
		prefix = len(m.LHS)
	}
	out := make([]Event, len(m.RHS))
	for i, s := range m.RHS {
		out[i] = Event{Stroke: s.AsVirtual(), Remap: m.Recursive && i >= prefix, Depth: depth}
	}
	return out, nil
}

func hasPrefix(strokes, prefix []key.Stroke) bool {
	if len(prefix) > len(strokes) {
		return false
	}
	for i, s := range prefix {
		if s.Code() != strokes[i].Code() {
			return false
		}
	}
	return true
}
