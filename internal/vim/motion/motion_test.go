package motion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/vimtest"
)

func move(t *testing.T, ed *vimtest.Editor, m vim.Motion) {
	t.Helper()
	require.NoError(t, NewCommand(m).Execute(ed))
}

func TestMotions(t *testing.T) {
	pairs := NewPairs(config.New().MatchPairs())
	tests := []struct {
		name   string
		text   string
		motion vim.Motion
		want   string
	}{
		{"w to end of buffer", "hello |world\n", WordRight(false), "hello world|\n"},
		{"w stops at punctuation", "|foo.bar baz", WordRight(false), "foo|.bar baz"},
		{"2w", "|foo.bar baz", vim.MotionWithCount(WordRight(false), 2), "foo.|bar baz"},
		{"W skips punctuation", "|foo.bar baz", WordRight(true), "foo.bar |baz"},
		{"w stops on empty line", "|a\n\nb", WordRight(false), "a\n|\nb"},
		{"b", "foo bar|", WordLeft(false), "foo |bar"},
		{"B", "x foo.ba|r", WordLeft(true), "x |foo.bar"},
		{"e", "|foo bar", WordEndRight(false), "fo|o bar"},
		{"e from word end", "fo|o bar", WordEndRight(false), "foo ba|r"},
		{"ge", "foo b|ar", WordEndLeft(false), "fo|o bar"},
		{"h stops at line start", "ab\n|cd", Left(), "ab\n|cd"},
		{"2h", "abc|d", vim.MotionWithCount(Left(), 2), "a|bcd"},
		{"l reaches line end", "ab|c\n", Right(), "abc|\n"},
		{"space crosses lines", "a|b\ncd", vim.MotionWithCount(RightAcrossLines(), 1), "ab\n|cd"},
		{"backspace crosses lines", "ab\n|cd", LeftAcrossLines(), "a|b\ncd"},
		{"0", "  ab|c", ColumnZero(), "|  abc"},
		{"^", "  ab|c", LineStart(), "  |abc"},
		{"$", "ab|c\ndef\n", LineEnd(), "abc|\ndef\n"},
		{"2$", "ab|c\ndef\n", vim.MotionWithCount(LineEnd(), 2), "abc\ndef|\n"},
		{"g_", "|abc  \n", LastNonBlank(), "ab|c  \n"},
		{"|", "|abcdef", vim.MotionWithCount(Column(), 4), "abc|def"},
		{"G", "|a\nb\n  c\n", LastLine(), "a\nb\n  |c\n"},
		{"2G", "|a\nb\n  c\n", vim.MotionWithCount(LastLine(), 2), "a\n|b\n  c\n"},
		{"gg", "a\n b\nc|\n", FirstLine(), "|a\n b\nc\n"},
		{"+", "|a\n  b\n", DownFirstNonBlank(), "a\n  |b\n"},
		{"-", "  a\n|b\n", UpFirstNonBlank(), "  |a\nb\n"},
		{"_", "  |a\nb\n", DownLessOneFirstNonBlank(), "  |a\nb\n"},
		{"}", "|a\nb\n\nc\n", ParagraphForward(), "a\nb\n|\nc\n"},
		{"} at end", "a\n\n|c\nd\n", ParagraphForward(), "a\n\nc\nd|\n"},
		{"{", "a\n\nb\n|c\n", ParagraphBackward(), "a\n|\nb\nc\n"},
		{")", "|One two. Three.", SentenceForward(), "One two. |Three."},
		{") ignores abbreviations", "|a.b c. D", SentenceForward(), "a.b c. |D"},
		{"(", "One. Two thr|ee.", SentenceBackward(), "One. |Two three."},
		{"%", "|if (a[1]) {}", Percent(pairs), "if (a[1]|) {}"},
		{"% backward", "if (a[1]|) {}", Percent(pairs), "if |(a[1]) {}"},
		{"[(", "f(a, (b), |c)", Unmatched('(', ')', false), "f|(a, (b), c)"},
		{"])", "f(|a, (b), c)", Unmatched('(', ')', true), "f(a, (b), c|)"},
		{"]m", "|x { y } { z }", vim.MotionWithCount(Method('{', true), 2), "x { y } |{ z }"},
		{"]]", "|a\n{\nb\n{\n", vim.MotionWithCount(Section('{', true), 2), "a\n{\nb\n|{\n"},
		{"[[", "{\na\nb|\n", Section('{', false), "|{\na\nb\n"},
		{"f", "|a,b,c", vim.MotionWithCount(&FindChar{Char: ','}, 2), "a,b|,c"},
		{"F", "a,b,|c", &FindChar{Char: ',', Backward: true}, "a,b|,c"},
		{"t", "|a,b,c", &FindChar{Char: 'c', Till: true}, "a,b|,c"},
		{"T", "a,b,|c", &FindChar{Char: 'a', Backward: true, Till: true}, "a|,b,c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := vimtest.New(tt.text)
			move(t, ed, tt.motion)
			assert.Equal(t, tt.want, ed.WithCursor())
		})
	}
}

func TestVerticalMotionsKeepStickyColumn(t *testing.T) {
	ed := vimtest.New("abc|d\nx\nabcd")
	move(t, ed, Down())
	assert.Equal(t, "abcd\nx|\nabcd", ed.WithCursor())
	move(t, ed, Down())
	assert.Equal(t, "abcd\nx\nabc|d", ed.WithCursor())

	move(t, ed, LineEnd())
	move(t, ed, Up())
	assert.Equal(t, "abcd\nx|\nabcd", ed.WithCursor(), "$ sticks to the end of line")
}

func TestVerticalMotionsStopAtLastLine(t *testing.T) {
	ed := vimtest.New("a|b\ncd\n")
	move(t, ed, vim.MotionWithCount(Down(), 5))
	assert.Equal(t, "ab\nc|d\n", ed.WithCursor())
}

func TestFindCharNotFound(t *testing.T) {
	ed := vimtest.New("|abc\nx")
	err := NewCommand(&FindChar{Char: 'x'}).Execute(ed)
	assert.True(t, errors.Is(err, vim.ErrCharNotFound))
	assert.Equal(t, 0, ed.Position())
}

func TestContinueFinding(t *testing.T) {
	ed := vimtest.New("|a,b,c,d")
	move(t, ed, &FindChar{Char: ',', Till: true})
	assert.Equal(t, "|a,b,c,d", ed.WithCursor(), "t stops before the adjacent comma")

	move(t, ed, &ContinueFinding{})
	assert.Equal(t, "a,|b,c,d", ed.WithCursor(), "; skips the adjacent match")

	move(t, ed, &ContinueFinding{})
	assert.Equal(t, "a,b,|c,d", ed.WithCursor())

	move(t, ed, &ContinueFinding{Reverse: true})
	assert.Equal(t, "a,|b,c,d", ed.WithCursor())

	last, ok := ed.Registers().LastFindCharMotion().(*FindChar)
	require.True(t, ok)
	assert.False(t, last.Backward, "repeats do not replace the last find")
}

func TestLastNavigatingMotion(t *testing.T) {
	ed := vimtest.New("|a,b,c d")
	assert.Nil(t, ed.Registers().LastNavigatingMotion())

	move(t, ed, &FindChar{Char: ',', Till: true})
	first, ok := ed.Registers().LastNavigatingMotion().(*FindChar)
	require.True(t, ok)
	assert.True(t, first.Till)

	move(t, ed, &ContinueFinding{})
	repeat, ok := ed.Registers().LastNavigatingMotion().(*FindChar)
	require.True(t, ok)
	assert.NotSame(t, first, repeat, "a repeat is recorded as navigation")
	assert.Same(t, first, ed.Registers().LastFindCharMotion())

	// Resolving a motion as an operator target leaves navigation alone.
	_, err := vim.ResolveMotion(ed, WordRight(false))
	require.NoError(t, err)
	assert.Same(t, repeat, ed.Registers().LastNavigatingMotion())

	move(t, ed, WordRight(false))
	assert.IsType(t, WordRight(false), ed.Registers().LastNavigatingMotion())
}

func TestContinueFindingWithoutFind(t *testing.T) {
	ed := vimtest.New("abc")
	err := NewCommand(&ContinueFinding{}).Execute(ed)
	assert.True(t, errors.Is(err, vim.ErrNoPrevious))
}

func TestSearchMotions(t *testing.T) {
	ed := vimtest.New("|foo bar bur")
	ed.Registers().SetSearch(&vim.Search{Pattern: "b.r"})

	move(t, ed, &SearchResult{})
	assert.Equal(t, 4, ed.Position())
	move(t, ed, &SearchResult{})
	assert.Equal(t, 8, ed.Position())
	move(t, ed, &SearchResult{})
	assert.Equal(t, 4, ed.Position(), "wrapscan wraps to the first match")
	move(t, ed, &SearchResult{Reverse: true})
	assert.Equal(t, 8, ed.Position())

	mark, ok := ed.Cursor().Mark(platform.MarkPreviousContext)
	require.True(t, ok)
	assert.Equal(t, 4, mark)
}

func TestSearchWithoutWrap(t *testing.T) {
	ed := vimtest.New("foo |bar")
	require.NoError(t, ed.Configuration().Set("wrapscan", "false"))
	ed.Registers().SetSearch(&vim.Search{Pattern: "foo"})

	err := NewCommand(&SearchResult{}).Execute(ed)
	require.Error(t, err)
	assert.Contains(t, vim.Message(err), "BOTTOM")
}

func TestSearchIgnoreCase(t *testing.T) {
	ed := vimtest.New("|x Foo foo")
	require.NoError(t, ed.Configuration().Set("ignorecase", "true"))
	ed.Registers().SetSearch(&vim.Search{Pattern: "foo"})
	move(t, ed, &SearchResult{})
	assert.Equal(t, 2, ed.Position())

	require.NoError(t, ed.Configuration().Set("smartcase", "true"))
	ed.SetPosition(0, platform.StickyOnChange)
	ed.Registers().SetSearch(&vim.Search{Pattern: "Foo"})
	move(t, ed, vim.MotionWithCount(&SearchResult{}, 2))
	assert.Equal(t, 2, ed.Position(), "an uppercase letter makes the search case sensitive")
}

func TestWordSearch(t *testing.T) {
	ed := vimtest.New("f|oo bar foobar foo")
	move(t, ed, &WordSearch{})
	assert.Equal(t, 15, ed.Position())
	assert.Equal(t, `\<foo\>`, ed.Registers().Search().Pattern)

	ed.SetPosition(1, platform.StickyOnChange)
	move(t, ed, &WordSearch{Lenient: true})
	assert.Equal(t, 8, ed.Position())

	move(t, ed, &SearchResult{})
	assert.Equal(t, 15, ed.Position(), "n continues the word search")
}

func TestMarks(t *testing.T) {
	ed := vimtest.New("|one\n  two\n")
	ed.Cursor().SetMark('a', 8)

	move(t, ed, &GoToMark{Name: 'a'})
	assert.Equal(t, 8, ed.Position())

	ed.SetPosition(0, platform.StickyOnChange)
	move(t, ed, &GoToMark{Name: 'a', Linewise: true})
	assert.Equal(t, 6, ed.Position())

	move(t, ed, &GoToMark{Name: '`'})
	assert.Equal(t, 0, ed.Position(), "`` returns to the position before the jump")

	err := NewCommand(&GoToMark{Name: 'z'}).Execute(ed)
	assert.True(t, errors.Is(err, vim.ErrNoMark))
}

func TestJumpSetsPreviousContext(t *testing.T) {
	ed := vimtest.New("a\nb|\nc\n")
	move(t, ed, FirstLine())
	mark, ok := ed.Cursor().Mark(platform.MarkPreviousContext)
	require.True(t, ok)
	assert.Equal(t, 3, mark)

	move(t, ed, Down())
	_, ok = ed.Cursor().Mark(platform.MarkPreviousContext)
	assert.True(t, ok)
	mark, _ = ed.Cursor().Mark(platform.MarkPreviousContext)
	assert.Equal(t, 3, mark, "j is not a jump")
}

func TestPairsFollowOption(t *testing.T) {
	opts := config.New()
	pairs := NewPairs(opts.MatchPairs())
	sub := pairs.Follow(opts)
	defer sub.Unsubscribe()

	_, _, ok := pairs.Match('<')
	assert.False(t, ok)

	require.NoError(t, opts.Set("matchpairs", "(:),<:>"))
	partner, forward, ok := pairs.Match('<')
	require.True(t, ok)
	assert.Equal(t, '>', partner)
	assert.True(t, forward)

	_, _, ok = pairs.Match('{')
	assert.False(t, ok)
	_, _, ok = pairs.Match('(')
	assert.True(t, ok)
}

func TestPercentWithCount(t *testing.T) {
	ed := vimtest.New("|1\n2\n3\n4\n")
	move(t, ed, vim.MotionWithCount(Percent(NewPairs(nil)), 50))
	assert.Equal(t, "1\n|2\n3\n4\n", ed.WithCursor())
}
