package keymap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

func seq(s string) []key.Stroke { return key.MustParseSequence(s) }

type recordingBuffer struct {
	added   []key.Stroke
	cleaned []bool
}

func (b *recordingBuffer) AddKeyToMapBuffer(s key.Stroke) { b.added = append(b.added, s) }
func (b *recordingBuffer) CleanMapBuffer(ok bool)         { b.cleaned = append(b.cleaned, ok) }

// drain feeds typed strokes through t the way a session does and returns
// the strokes that reach the mode.
func drain(t *testing.T, tr *Translator, keymap, typed string) string {
	t.Helper()
	var out []key.Stroke
	var queue []Event
	for _, s := range seq(typed) {
		queue = append(queue, Typed(s))
	}
	for len(queue) > 0 {
		ev := queue[0]
		queue = queue[1:]
		if !ev.Remap {
			out = append(out, ev.Stroke)
			continue
		}
		next, err := tr.Press(keymap, ev, nil)
		require.NoError(t, err)
		queue = append(next, queue...)
	}
	return key.FormatSequence(out)
}

func TestForMode(t *testing.T) {
	tests := []struct {
		mode string
		want []string
	}{
		{"", []string{Normal, Visual, OperatorPending}},
		{"n", []string{Normal}},
		{"nnoremap", []string{Normal}},
		{"visual", []string{Visual}},
		{"o", []string{OperatorPending}},
		{"imap", []string{Insert}},
	}
	for _, tt := range tests {
		got, err := ForMode(tt.mode)
		require.NoError(t, err, tt.mode)
		assert.Equal(t, tt.want, got, tt.mode)
	}
	_, err := ForMode("bogus")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("Y"), RHS: seq("y$")}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("<C-s>"), RHS: seq(":w<CR>"), Recursive: true}))
	assert.Error(t, r.Map(Normal, Remapping{RHS: seq("x")}))
	assert.Error(t, r.Map(Normal, Remapping{LHS: seq("x")}))

	got := r.Mappings(Normal)
	require.Len(t, got, 2)
	assert.Equal(t, "<C-s>", key.FormatSequence(got[0].LHS))
	assert.Equal(t, "Y"+strings.Repeat(" ", 9)+" * y$", got[1].String())
	assert.Empty(t, r.Mappings(Insert))

	require.NoError(t, r.Unmap(Normal, seq("Y")))
	assert.ErrorIs(t, r.Unmap(Normal, seq("Y")), ErrNoMapping)
	assert.Len(t, r.Mappings(Normal), 1)

	r.Clear(Normal)
	assert.True(t, state.IsEmpty(r.State(Normal)))
}

func TestRegistryStateFollowsChanges(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("gx"), RHS: seq("x")}))
	_, ok := r.State(Normal).Press(key.Rune('g'))
	assert.True(t, ok)

	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("Q"), RHS: seq("gq")}))
	_, ok = r.State(Normal).Press(key.Rune('Q'))
	assert.True(t, ok)
	_, ok = r.State(Normal).Press(key.Rune('g'))
	assert.True(t, ok)
}

func TestTranslator(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("Y"), RHS: seq("y$")}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("jk"), RHS: seq("<Esc>")}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("Q"), RHS: seq("Y"), Recursive: true}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("N"), RHS: seq("Y")}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("x"), RHS: seq("xl"), Recursive: true}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("l"), RHS: seq("w")}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("gj"), RHS: seq("X")}))

	tests := []struct {
		name  string
		typed string
		want  string
	}{
		{"unmapped", "dw", "dw"},
		{"simple", "Y", "y$"},
		{"recursive", "Q", "y$"},
		{"non-recursive", "N", "Y"},
		{"broken sequence", "gx", "gx"},
		{"rhs starting with lhs", "x", "xw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, drain(t, NewTranslator(r), Normal, tt.typed))
		})
	}
}

func TestTranslatorPrefixes(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Insert, Remapping{LHS: seq("jk"), RHS: seq("<Esc>")}))
	tr := NewTranslator(r)
	buf := &recordingBuffer{}

	out, err := tr.Press(Insert, Typed(key.Rune('j')), buf)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.True(t, tr.Pending())
	assert.Equal(t, seq("j"), buf.added)

	out, err = tr.Press(Insert, Typed(key.Rune('k')), buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, key.KeyEscape, out[0].Stroke.Key)
	assert.True(t, out[0].Stroke.Virtual)
	assert.False(t, out[0].Remap)
	assert.Equal(t, []bool{true}, buf.cleaned)

	_, err = tr.Press(Insert, Typed(key.Rune('j')), buf)
	require.NoError(t, err)
	out, err = tr.Press(Insert, Typed(key.Rune('x')), buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 'j', out[0].Stroke.Rune)
	assert.False(t, out[0].Remap)
	assert.Equal(t, 'x', out[1].Stroke.Rune)
	assert.True(t, out[1].Remap)
	assert.Equal(t, []bool{true, false}, buf.cleaned)
}

func TestTranslatorFlush(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Insert, Remapping{LHS: seq("jk"), RHS: seq("<Esc>")}))
	tr := NewTranslator(r)
	_, err := tr.Press(Insert, Typed(key.Rune('j')), nil)
	require.NoError(t, err)
	held := tr.Flush(nil)
	require.Len(t, held, 1)
	assert.False(t, held[0].Remap)
	assert.False(t, tr.Pending())
}

func TestTranslatorNoKeymap(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("x"), RHS: seq("dd")}))
	out, err := NewTranslator(r).Press("", Typed(key.Rune('x')), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 'x', out[0].Stroke.Rune)
	assert.False(t, out[0].Remap)
}

func TestTranslatorRecursionLimit(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("a"), RHS: seq("b"), Recursive: true}))
	require.NoError(t, r.Map(Normal, Remapping{LHS: seq("b"), RHS: seq("a"), Recursive: true}))
	tr := NewTranslator(r)

	ev := Typed(key.Rune('a'))
	for i := 0; i < MaxDepth; i++ {
		out, err := tr.Press(Normal, ev, nil)
		require.NoError(t, err)
		require.Len(t, out, 1)
		ev = out[0]
	}
	_, err := tr.Press(Normal, ev, nil)
	assert.ErrorIs(t, err, vim.ErrRecursiveMapping)
}

func TestResolver(t *testing.T) {
	literal := state.ConvertKey(func(key.Stroke) (string, bool) { return "", true })
	switches := state.New(
		state.LeafTrans(key.Rune('d'), OperatorPending, state.New(
			state.Trans(key.Rune('f'), literal),
		)),
		state.LeafTrans(key.Rune('f'), "", literal),
	)
	r := NewResolver(Normal, switches)
	assert.Equal(t, Normal, r.KeyMap())

	r.Store(key.Rune('d'))
	assert.Equal(t, OperatorPending, r.KeyMap())
	r.Store(key.Rune('f'))
	assert.Equal(t, OperatorPending, r.KeyMap())
	r.Store(key.Rune('x'))
	assert.Equal(t, "", r.KeyMap())
	r.Store(key.Rune('y'))
	assert.Equal(t, "", r.KeyMap())

	r.Reset()
	assert.Equal(t, Normal, r.KeyMap())
	r.Store(key.Rune('w'))
	assert.Equal(t, Normal, r.KeyMap())

	assert.Equal(t, Insert, NewResolver(Insert, nil).KeyMap())
}
