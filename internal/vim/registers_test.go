package vim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/modal/internal/platform/memory"
)

func newManager() *RegisterManager {
	return NewRegisterManager(&memory.Clipboard{}, func() string { return "notes.txt" })
}

func TestBlackHoleReadsEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := newManager()
		writes := rapid.SliceOfN(rapid.String(), 1, 5).Draw(t, "writes")
		for _, w := range writes {
			if err := m.SetActive(RegisterBlackHole); err != nil {
				t.Fatal(err)
			}
			if err := m.Yanked(TextOf(w)); err != nil {
				t.Fatal(err)
			}
			if err := m.Deleted(LinesOf(w)); err != nil {
				t.Fatal(err)
			}
			r, _ := m.Register(RegisterBlackHole)
			if err := r.SetContent(TextOf(w)); err != nil {
				t.Fatal(err)
			}
			if !r.Content().IsEmpty() {
				t.Fatalf("black hole returned %q", r.Content().String())
			}
		}
		if !m.Default().Content().IsEmpty() {
			t.Fatalf("black hole writes leaked into the unnamed register")
		}
	})
}

func TestYankUsesZeroRegister(t *testing.T) {
	m := newManager()
	require.NoError(t, m.Yanked(TextOf("word")))

	zero, _ := m.Register('0')
	assert.Equal(t, "word", zero.Content().Text)
	assert.Equal(t, "word", m.Default().Content().Text)
	assert.Equal(t, "word", m.LastYank().Text)
}

func TestDeleteShiftsNumberedRegisters(t *testing.T) {
	m := newManager()
	require.NoError(t, m.Deleted(LinesOf("one")))
	require.NoError(t, m.Deleted(LinesOf("two")))
	require.NoError(t, m.Deleted(TextOf("x")))

	one, _ := m.Register('1')
	two, _ := m.Register('2')
	small, _ := m.Register('-')
	assert.Equal(t, "two\n", one.Content().Text)
	assert.Equal(t, "one\n", two.Content().Text)
	assert.Equal(t, "x", small.Content().Text)
	assert.Equal(t, "x", m.Default().Content().Text)
	assert.Equal(t, "x", m.LastDelete().Text)
}

func TestNamedRegisterAppend(t *testing.T) {
	m := newManager()
	require.NoError(t, m.SetActive('a'))
	require.NoError(t, m.Yanked(TextOf("foo")))
	require.NoError(t, m.SetActive('A'))
	require.NoError(t, m.Yanked(TextOf("bar")))

	a, _ := m.Register('a')
	assert.Equal(t, TextOf("foobar"), a.Content())
	assert.Equal(t, "foobar", m.Default().Content().Text, "unnamed follows the last write")

	zero, _ := m.Register('0')
	assert.True(t, zero.Content().IsEmpty(), "register 0 only tracks default yanks")

	require.NoError(t, m.Yanked(LinesOf("line")))
	assert.Equal(t, LinesOf("foobar\nline\n"), a.Content())
}

func TestActiveRegister(t *testing.T) {
	m := newManager()
	assert.True(t, m.IsDefaultActive())

	require.NoError(t, m.SetActive('q'))
	assert.False(t, m.IsDefaultActive())
	assert.Equal(t, 'q', m.Active().Name())

	m.ActivateDefault()
	assert.Equal(t, RegisterUnnamed, m.ActiveName())

	err := m.SetActive('!')
	assert.True(t, errors.Is(err, ErrInvalidRegister))
}

func TestReadOnlyRegisters(t *testing.T) {
	m := newManager()
	m.SetSearch(&Search{Pattern: "needle"})
	m.SetLastCommandLine("s/a/b/")
	m.SetLastInsertion(nil, "typed")

	for name, want := range map[rune]string{'/': "needle", ':': "s/a/b/", '.': "typed", '%': "notes.txt"} {
		r, err := m.Register(name)
		require.NoError(t, err)
		assert.Equal(t, want, r.Content().Text)
		err = r.SetContent(TextOf("x"))
		assert.True(t, errors.Is(err, ErrReadOnlyRegister))
	}
}

func TestClipboardRegisterKeepsType(t *testing.T) {
	clip := &memory.Clipboard{}
	m := NewRegisterManager(clip, nil)
	require.NoError(t, m.SetActive('+'))
	require.NoError(t, m.Yanked(BlockOf([]string{"ab", "c"})))

	plus, _ := m.Register('+')
	assert.Equal(t, TextRectangle, plus.Content().Type)

	require.NoError(t, clip.Write("from elsewhere\n"))
	assert.Equal(t, LinesOf("from elsewhere\n"), plus.Content())
}

func TestSetDefaultFollowsClipboardOption(t *testing.T) {
	m := newManager()
	m.SetDefault(RegisterSelection)
	assert.Equal(t, RegisterSelection, m.ActiveName())
	require.NoError(t, m.Yanked(TextOf("x")))

	star, _ := m.Register('*')
	assert.Equal(t, "x", star.Content().Text)
	assert.Equal(t, "x", m.Default().Content().Text)
}

func TestNamesListsFilledRegisters(t *testing.T) {
	m := newManager()
	require.NoError(t, m.Yanked(TextOf("x")))
	assert.Equal(t, []rune{'"', '%', '0'}, m.Names())
}
