package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
)

func TestVisualOperations(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"delete", "|abcdef", "vlld", "|def"},
		{"delete backwards", "abc|def", "vhhd", "a|ef"},
		{"line delete", "a\n|b\nc", "Vd", "a\n|c"},
		{"line delete repeat", "|1\n2\n3\n4\n5", "Vjd.", "|5"},
		{"char delete repeat", "|abcdef", "vld.", "|ef"},
		{"upper", "|abc def", "veU", "|ABC def"},
		{"swap ends", "a|bcd", "vlohd", "|d"},
		{"escape", "|abc", "vl<Esc>x", "a|c"},
		{"join", "|a\nb\nc", "VjJ", "a| b\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.text)
			h.typeKeys(tt.keys)
			assert.Equal(t, tt.want, h.WithCursor())
			assert.Equal(t, vim.ModeNormal, h.ModeName())
			_, selected := h.Selection().Selection()
			assert.False(t, selected)
		})
	}
}

func TestVisualSelectionFollowsCursor(t *testing.T) {
	h := newHarness(t, "|abc def")
	h.typeKeys("vw")
	assert.Equal(t, vim.ModeVisual, h.ModeName())
	sel, ok := h.Selection().Selection()
	require.True(t, ok)
	assert.Equal(t, platform.Selection{Anchor: 0, Head: 4, Kind: platform.SelectCharacters}, sel)
}

func TestVisualSwitchKind(t *testing.T) {
	h := newHarness(t, "|abc\ndef")
	h.typeKeys("vlV")
	assert.Equal(t, vim.ModeVisualLine, h.ModeName())
	sel, ok := h.Selection().Selection()
	require.True(t, ok)
	assert.Equal(t, platform.SelectLines, sel.Kind)
	assert.Equal(t, 0, sel.Anchor)
	assert.Equal(t, 1, sel.Head)

	h.typeKeys("V")
	assert.Equal(t, vim.ModeNormal, h.ModeName())
}

func TestVisualRecall(t *testing.T) {
	h := newHarness(t, "|abcdef")
	h.typeKeys("vll<Esc>")

	start, ok := h.Cursor().Mark(platform.MarkSelectionStart)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	end, ok := h.Cursor().Mark(platform.MarkSelectionEnd)
	require.True(t, ok)
	assert.Equal(t, 2, end)

	h.typeKeys("0gv")
	assert.Equal(t, vim.ModeVisual, h.ModeName())
	sel, ok := h.Selection().Selection()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Anchor)
	assert.Equal(t, 2, sel.Head)
	assert.Equal(t, 2, h.Position())
}

func TestVisualRecallWithoutSelection(t *testing.T) {
	h := newHarness(t, "|abc")
	h.typeKeys("gv")
	assert.Equal(t, vim.ModeNormal, h.ModeName())
	assert.Equal(t, "no selection", h.Messages().ErrorMessage())
}

func TestVisualRegisterYank(t *testing.T) {
	h := newHarness(t, "|abc")
	h.typeKeys(`vl"ay`)
	a, err := h.Registers().Register('a')
	require.NoError(t, err)
	assert.Equal(t, "ab", a.Content().String())
	assert.True(t, h.Registers().IsDefaultActive())
}

func TestVisualBlockYank(t *testing.T) {
	h := newHarness(t, "|abc\ndef\nghi")
	h.typeKeys("<C-v>jly")
	reg := h.Registers().Default()
	assert.Equal(t, vim.TextRectangle, reg.Content().Type)
	assert.Equal(t, []string{"ab", "de"}, reg.Content().Block)
}

func TestVisualTextObject(t *testing.T) {
	h := newHarness(t, "foo(b|ar)")
	h.typeKeys("vi(d")
	assert.Equal(t, "foo(|)", h.WithCursor())
}

func TestVisualCommandLineRange(t *testing.T) {
	h := newHarness(t, "|a\na\na")
	h.typeKeys("Vj:")
	assert.Equal(t, ":'<,'>", h.Messages().CommandLine())

	h.typeKeys("s/a/b/<CR>")
	assert.Equal(t, "b\nb\na", h.Text())
}
