package surround_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/platform/memory"
	"github.com/dshills/modal/internal/session"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/surround"
)

func open(t *testing.T, text string) (*session.Session, *memory.Platform) {
	t.Helper()
	cursor := strings.IndexByte(text, '|')
	if cursor >= 0 {
		text = text[:cursor] + text[cursor+1:]
	} else {
		cursor = 0
	}
	p := memory.New(text)
	s, err := session.New(p, session.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	s.SetPosition(cursor, platform.StickyOnChange)
	return s, p
}

func withCursor(p *memory.Platform) string {
	text := p.Buffer().String()
	pos := p.Cursor().Position()
	return text[:pos] + "|" + text[pos:]
}

func TestSurroundEdits(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"delete spaced", "x( a|b )y", "ds(", "x|aby"},
		{"delete exact", "x( a|b )y", "ds)", "x| ab y"},
		{"delete alias", "[a|b]", "dsr", "|ab"},
		{"delete quotes", `say "h|i" now`, `ds"`, "say |hi now"},
		{"delete tag", "<p class=\"x\">a|b</p>", "dst", "|ab"},
		{"delete outer with count", "((a|b))", "2ds)", "|(ab)"},
		{"change", "(a|b)", "cs)]", "|[ab]"},
		{"change adds spaces", "(a|b)", "cs)[", "|[ ab ]"},
		{"change strips spaces", "[ a|b ]", "cs[)", "|(ab)"},
		{"change to any mark", "'a|b'", "cs'*", "|*ab*"},
		{"add word", "a|b cd", "ysiw)", "|(ab) cd"},
		{"add spaced", "a|b cd", "ysiw(", "|( ab ) cd"},
		{"add motion", "a|b cd", "ys$]", "a|[b cd]"},
		{"add line", "  a|b cd", `yss"`, `  |"ab cd"`},
		{"add counted", "a b c", "ys2aw}", "|{a b }c"},
		{"add alias", "a|b", "ysiwB", "|{ab}"},
		{"add tag", "a|b cd", "ysiwt<lt>em><CR>", "|<em>ab</em> cd"},
		{"add tag without brackets", "a|b cd", "ysiw<lt>div id=\"x\"<CR>", `|<div id="x">ab</div> cd`},
		{"change to tag", "(a|b)", "cs)tp<CR>", "|<p>ab</p>"},
		{"visual", "a|bcd", "vlS)", "a|(bc)d"},
		{"visual block", "|abc\ndef", "<C-v>jlS]", "|[ab]c\n[de]f"},
		{"visual tag", "a|bcd", "vlStb<CR>", "a|<b>bc</b>d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p := open(t, tt.text)
			require.NoError(t, s.Type(tt.keys))
			assert.Empty(t, p.Messages().ErrorMessage())
			assert.Equal(t, tt.want, withCursor(p))
			assert.Equal(t, vim.ModeNormal, s.ModeName())
		})
	}
}

func TestSurroundOwnLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"linewise selection", "a|b\ncd", "VS}", "|{\n  ab\n}\ncd"},
		{"keeps indentation", "  a|b\n\n  cd\nef", "VjjS]", "  |[\n    ab\n\n    cd\n  ]\nef"},
		{"own lines", "  a|bc", "vlgS)", "  |(\n    abc\n  )"},
		{"linewise object", "a|b\ncd", "ysj)", "|(\n  ab\n  cd\n)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p := open(t, tt.text)
			require.NoError(t, s.Run("set sw=2 et"))
			require.NoError(t, s.Type(tt.keys))
			assert.Empty(t, p.Messages().ErrorMessage())
			assert.Equal(t, tt.want, withCursor(p))
		})
	}
}

func TestSurroundMarksChange(t *testing.T) {
	s, p := open(t, "a|b cd")
	require.NoError(t, s.Type("ysiw)"))
	start, ok := p.Cursor().Mark(platform.MarkLastChangeStart)
	require.True(t, ok)
	end, ok := p.Cursor().Mark(platform.MarkLastChangeEnd)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestSurroundRepeat(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		s, p := open(t, "a|b cd")
		require.NoError(t, s.Type("ysiw)W."))
		assert.Equal(t, "(ab) |(cd)", withCursor(p))
	})

	t.Run("delete", func(t *testing.T) {
		s, p := open(t, "(a) (|b)")
		require.NoError(t, s.Type("ds)0."))
		assert.Equal(t, "|a b", withCursor(p))
	})

	t.Run("tag", func(t *testing.T) {
		s, p := open(t, "a|b cd")
		require.NoError(t, s.Type("ysiwti<CR>W."))
		assert.Equal(t, "<i>ab</i> |<i>cd</i>", withCursor(p))
	})

	t.Run("undo", func(t *testing.T) {
		s, p := open(t, "(a|b)")
		require.NoError(t, s.Type("cs)]u"))
		assert.Equal(t, "(ab)", p.Buffer().String())
	})
}

func TestSurroundFailures(t *testing.T) {
	s, p := open(t, "a|b")
	require.NoError(t, s.Type("ds)"))
	assert.NotEmpty(t, p.Messages().ErrorMessage())
	assert.Equal(t, "ab", p.Buffer().String())

	require.NoError(t, s.Type("ysiwt<CR>"))
	assert.Equal(t, "empty tag", p.Messages().ErrorMessage())
	assert.Equal(t, "ab", p.Buffer().String())

	require.NoError(t, s.Type("ysiwt<Esc>"))
	assert.Equal(t, "ab", p.Buffer().String())
	assert.Equal(t, vim.ModeNormal, s.ModeName())
}

func TestSurroundCommand(t *testing.T) {
	s, p := open(t, "a|b cd")
	require.NoError(t, s.Run(`surround q “\r”`))
	require.NoError(t, s.Run(`surround s <SPACE>\r<space>`))
	require.NoError(t, s.Type("ysiwq"))
	assert.Equal(t, "“ab” cd", p.Buffer().String())
	require.NoError(t, s.Type("Wysiws"))
	assert.Equal(t, "“ab”  cd ", p.Buffer().String())

	for _, line := range []string{
		"surround q",
		`surround qq a\rb`,
		"surround q ab",
		`surround q a\rb\rc`,
		`surround q a\r`,
	} {
		err := s.Run(line)
		require.Error(t, err, line)
		var ce *vim.ConfigError
		assert.ErrorAs(t, err, &ce, line)
	}
}

func TestRegistry(t *testing.T) {
	r := surround.NewRegistry()

	d, ok := r.Lookup('(')
	require.True(t, ok)
	assert.Equal(t, surround.Delimiter{Left: "( ", Right: " )"}, d)

	d, ok = r.Lookup('b')
	require.True(t, ok)
	assert.Equal(t, surround.Delimiter{Left: "(", Right: ")"}, d)

	d, ok = r.Lookup('t')
	require.True(t, ok)
	assert.True(t, d.Tag)

	d, ok = r.Lookup('|')
	require.True(t, ok, "punctuation surrounds with itself")
	assert.Equal(t, surround.Delimiter{Left: "|", Right: "|"}, d)

	for _, ch := range []rune{'x', '7', ' '} {
		_, ok := r.Lookup(ch)
		assert.False(t, ok, "%q", ch)
	}

	require.NoError(t, r.Define("b", `<<\r>>`))
	d, _ = r.Lookup('b')
	assert.Equal(t, surround.Delimiter{Left: "<<", Right: ">>"}, d, "definitions replace defaults")

	require.NoError(t, r.Define("x", "[\r]"))
	d, ok = r.Lookup('x')
	require.True(t, ok)
	assert.Equal(t, surround.Delimiter{Left: "[", Right: "]"}, d)

	for _, def := range []string{`a\r`, "a\r", `\r`, `a\rb\rc`, "ab"} {
		err := r.Define("y", def)
		var ce *vim.ConfigError
		assert.ErrorAs(t, err, &ce, "%q", def)
	}
	_, ok = r.Lookup('y')
	assert.False(t, ok, "a rejected definition is not added")

	require.NoError(t, r.Define("z", `\rb`))
	d, _ = r.Lookup('z')
	assert.Equal(t, surround.Delimiter{Right: "b"}, d)

	_, ok = r.Lookup(0)
	assert.False(t, ok)
	_, ok = r.State().Press(key.Special(key.KeyEnter))
	assert.False(t, ok)
}

func TestTagDelimiter(t *testing.T) {
	d, err := surround.TagDelimiter(`<div class="a">`)
	require.NoError(t, err)
	assert.Equal(t, surround.Delimiter{Left: `<div class="a">`, Right: "</div>"}, d)

	d, err = surround.TagDelimiter(" span ")
	require.NoError(t, err)
	assert.Equal(t, surround.Delimiter{Left: "<span>", Right: "</span>"}, d)

	_, err = surround.TagDelimiter("<>")
	require.Error(t, err)
}
