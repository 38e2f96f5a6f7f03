package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeString(t *testing.T) {
	tests := []struct {
		stroke Stroke
		want   string
	}{
		{Rune('a'), "a"},
		{Rune('A'), "A"},
		{Rune('<'), "<lt>"},
		{Rune(' '), " "},
		{Ctrl('f'), "<C-f>"},
		{Ctrl('F'), "<C-f>"},
		{Special(KeyEscape), "<Esc>"},
		{Special(KeyEnter), "<CR>"},
		{Special(KeyTab).WithModifiers(ModShift), "<S-Tab>"},
		{Rune(' ').WithModifiers(ModCtrl), "<C-Space>"},
		{Rune('x').WithModifiers(ModCtrl | ModAlt), "<C-A-x>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stroke.String())
		})
	}
}

func TestStrokeEqualityIgnoresVirtual(t *testing.T) {
	a := Rune('j')
	b := Rune('j').AsVirtual()

	require.True(t, a.Equals(b))
	require.Equal(t, a.Code(), b.Code())
	require.False(t, a.Equals(Rune('k')))
}

func TestStrokeCodeDropsShiftForRunes(t *testing.T) {
	shifted := Rune('A').WithModifiers(ModShift)
	require.Equal(t, Rune('A').Code(), shifted.Code())

	tab := Special(KeyTab)
	require.NotEqual(t, tab.Code(), tab.WithModifiers(ModShift).Code())
}

func TestStrokeCharacter(t *testing.T) {
	r, ok := Rune('x').Character()
	require.True(t, ok)
	require.Equal(t, 'x', r)

	r, ok = Special(KeyEnter).Character()
	require.True(t, ok)
	require.Equal(t, '\n', r)

	_, ok = Ctrl('w').Character()
	require.False(t, ok)

	_, ok = Special(KeyEscape).Character()
	require.False(t, ok)
}

func TestFixAltGr(t *testing.T) {
	tests := []struct {
		name   string
		in     Stroke
		want   Stroke
		wantOK bool
	}{
		{"altgr pair", Rune('@').WithModifiers(ModCtrl | ModAlt), Rune('@'), true},
		{"altgr with shift", Rune('{').WithModifiers(ModCtrl | ModAlt | ModShift), Rune('{').WithModifiers(ModShift), true},
		{"ctrl only", Ctrl('a'), Ctrl('a'), false},
		{"special key", Special(KeyEnter).WithModifiers(ModCtrl | ModAlt), Special(KeyEnter).WithModifiers(ModCtrl | ModAlt), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FixAltGr(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFixAltGrKeepsVirtualFlag(t *testing.T) {
	got, ok := FixAltGr(Rune('~').WithModifiers(ModCtrl | ModAlt).AsVirtual())
	require.True(t, ok)
	require.True(t, got.Virtual)
}

func TestKeyFromName(t *testing.T) {
	assert.Equal(t, KeyEscape, KeyFromName("Esc"))
	assert.Equal(t, KeyEnter, KeyFromName(" return "))
	assert.Equal(t, KeyF12, KeyFromName("F12"))
	assert.Equal(t, KeyNone, KeyFromName("bogus"))
}
