package mode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/vimtest"
)

// harness routes mode changes, fed keys and command lines of a vimtest
// editor through a real Manager and Evaluators.
type harness struct {
	*vimtest.Editor
	modes      *Manager
	evaluators *Evaluators
	keymaps    *keymap.Registry
	queue      []key.Stroke
}

func newHarness(t *testing.T, text string, extra ...state.State[vim.Command]) *harness {
	t.Helper()
	h := &harness{
		Editor:     vimtest.New(text),
		modes:      NewManager(nil),
		evaluators: NewEvaluators(),
		keymaps:    keymap.NewRegistry(),
	}
	RegisterBuiltins(h.evaluators, h.keymaps)

	states := NewStates()
	tables := NewTables(motion.NewPairs(config.New().MatchPairs()))
	tables.Normal = extra
	h.modes.Register(
		NewNormal(h, states, tables),
		NewVisual(h, states, tables, vim.ModeVisual),
		NewVisual(h, states, tables, vim.ModeVisualLine),
		NewVisual(h, states, tables, vim.ModeVisualBlock),
		NewInsert(h),
		NewCommandLine(h),
		NewSearch(h),
		NewDelimiterPrompt(h),
	)
	require.NoError(t, h.modes.Switch(vim.ModeNormal))
	return h
}

func (h *harness) ChangeMode(name string, hints ...vim.Hint) error {
	return h.modes.Switch(name, hints...)
}

func (h *harness) ModeName() string { return h.modes.CurrentName() }

func (h *harness) Evaluate(line string) error {
	return h.evaluators.Evaluate(h, line)
}

func (h *harness) FeedKeys(strokes []key.Stroke) {
	h.queue = append(h.queue, strokes...)
}

// typeKeys presses each key of a Vim notation sequence, then any keys the
// commands fed.
func (h *harness) typeKeys(keys string) {
	for _, s := range key.MustParseSequence(keys) {
		h.modes.Current().Press(s)
		for len(h.queue) > 0 {
			next := h.queue[0]
			h.queue = h.queue[1:]
			next.Virtual = true
			h.modes.Current().Press(next)
		}
	}
}
