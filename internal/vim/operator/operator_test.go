package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/platform/memory"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/motion"
	"github.com/dshills/modal/internal/vim/textobj"
	"github.com/dshills/modal/internal/vim/vimtest"
)

func table() state.State[vim.Command] {
	pairs := motion.NewPairs(config.New().MatchPairs())
	return Bindings(textobj.Bindings(motion.Bindings(pairs)))
}

// lookup walks keys through st and returns the command they complete.
func lookup(t *testing.T, st state.State[vim.Command], keys string) vim.Command {
	t.Helper()
	strokes := key.MustParseSequence(keys)
	for i, s := range strokes {
		tr, ok := st.Press(s)
		require.True(t, ok, "%q rejected at %d", keys, i)
		if i == len(strokes)-1 {
			cmd, ok := tr.Value()
			require.True(t, ok, "%q is incomplete", keys)
			return cmd
		}
		st = tr.Next()
	}
	t.Fatalf("empty key sequence")
	return nil
}

func run(t *testing.T, ed *vimtest.Editor, keys string) {
	t.Helper()
	require.NoError(t, lookup(t, table(), keys).Execute(ed))
}

type rangeObject struct {
	r vim.TextRange
}

func (o rangeObject) Region(vim.Editor) (vim.TextRange, error)           { return o.r, nil }
func (o rangeObject) ContentType(platform.Configuration) vim.ContentType { return o.r.Type }

func TestNormalEdits(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"dw", "|foo bar", "dw", "|bar"},
		{"d2w", "|a b c", "d2w", "|c"},
		{"dd", "a\n|b\nc", "dd", "a\n|c"},
		{"d2d", "|a\nb\nc\n", "d2d", "|c\n"},
		{"dd on last line", "a\n|b", "dd", "|a"},
		{"dd on only line", "fo|o", "dd", "|"},
		{"x", "a|bc", "x", "a|c"},
		{"X", "a|bc", "X", "|bc"},
		{"D", "a|bc\nd", "D", "a|\nd"},
		{"gUiw", "|foo bar", "gUiw", "|FOO bar"},
		{"g~~", "|aB\nc", "g~~", "|Ab\nc"},
		{"g~g~", "|aB\nc", "g~g~", "|Ab\nc"},
		{"g??", "|abc", "g??", "|nop"},
		{"guu", "|ABC", "guu", "|abc"},
		{">>", "|a\nb", ">>", "\t|a\nb"},
		{"<<", "\t\t|a", "<<", "\t|a"},
		{">j", "|a\n\nb", ">2j", "\t|a\n\n\tb"},
		{"J", "|a\n  b\nc", "J", "a| b\nc"},
		{"gJ", "|a\n  b\nc", "gJ", "a|  b\nc"},
		{"J before paren", "|f(\n)", "J", "f(|)"},
		{"rx", "|abc", "rx", "|xbc"},
		{"r<CR>", "a|bc", "r<CR>", "a\n|c"},
		{"~", "|aBc", "~", "A|Bc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := vimtest.New(tt.text)
			run(t, ed, tt.keys)
			assert.Equal(t, tt.want, ed.WithCursor())
		})
	}
}

func TestDeleteFillsRegisters(t *testing.T) {
	ed := vimtest.New("a\n|b")
	run(t, ed, "dd")
	got := ed.Registers().Default().Content()
	assert.Equal(t, vim.LinesOf("b"), got)

	ed = vimtest.New("|foo bar")
	run(t, ed, "dw")
	assert.Equal(t, vim.TextOf("foo "), ed.Registers().Default().Content())
}

func TestBlackHoleDelete(t *testing.T) {
	ed := vimtest.New("|foo bar")
	require.NoError(t, ed.Registers().Yanked(vim.TextOf("keep")))
	require.NoError(t, ed.Registers().SetActive(vim.RegisterBlackHole))
	run(t, ed, "dw")
	ed.Registers().ActivateDefault()
	assert.Equal(t, "keep", ed.Registers().Default().Content().Text)
}

func TestYankKeepsText(t *testing.T) {
	ed := vimtest.New("foo b|ar")
	run(t, ed, "yiw")
	assert.Equal(t, "foo |bar", ed.WithCursor())
	assert.Equal(t, vim.TextOf("bar"), ed.Registers().Default().Content())

	ed = vimtest.New("ab\nc|d")
	run(t, ed, "yk")
	assert.Equal(t, "a|b\ncd", ed.WithCursor())
	assert.Equal(t, vim.LinesOf("ab\ncd"), ed.Registers().Default().Content())
}

func TestBlockDelete(t *testing.T) {
	ed := vimtest.New("abc\ndef")
	obj := rangeObject{vim.TextRange{Start: 1, End: 5, Type: vim.TextRectangle}}
	require.NoError(t, Delete{}.Apply(ed, obj))
	assert.Equal(t, "a|c\ndf", ed.WithCursor())
	assert.Equal(t, vim.BlockOf([]string{"b", "e"}), ed.Registers().Default().Content())
}

func TestChange(t *testing.T) {
	ed := vimtest.New("|foo bar")
	run(t, ed, "cw")
	assert.Equal(t, "| bar", ed.WithCursor())
	mc, ok := ed.LastModeChange()
	require.True(t, ok)
	assert.Equal(t, vim.ModeInsert, mc.Name)
	require.Len(t, mc.Hints, 1)
	hint := mc.Hints[0].(vim.InsertHint)
	assert.NotNil(t, hint.Repetition)

	ed = vimtest.New("foo| bar")
	run(t, ed, "cw")
	assert.Equal(t, "foo|bar", ed.WithCursor())
}

func TestChangeLinesKeepsIndent(t *testing.T) {
	opts := config.New()
	require.NoError(t, opts.Set("autoindent", "true"))
	ed := vimtest.New("a\n  |b\nc", memory.WithConfiguration(opts))
	run(t, ed, "cc")
	assert.Equal(t, "a\n  |\nc", ed.WithCursor())

	ed = vimtest.New("a\n  |b\nc")
	run(t, ed, "S")
	assert.Equal(t, "a\n|\nc", ed.WithCursor())
}

func TestPaste(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		payload vim.Content
		cmd     vim.Command
		want    string
	}{
		{"p lines", "|a\nb", vim.LinesOf("x"), &Paste{After: true}, "a\n|x\nb"},
		{"P lines", "a\n|b", vim.LinesOf("x"), &Paste{}, "a\n|x\nb"},
		{"p lines on last line", "a\n|b", vim.LinesOf("x"), &Paste{After: true}, "a\nb\n|x"},
		{"2p lines on last line", "|a", vim.LinesOf("x"), vim.WithCount(&Paste{After: true}, 2), "a\n|x\nx"},
		{"gp lines", "|a\nb", vim.LinesOf("x"), &Paste{After: true, CursorAfter: true}, "a\nx\n|b"},
		{"P text", "a|bc", vim.TextOf("xy"), &Paste{}, "ax|ybc"},
		{"p text", "a|bc", vim.TextOf("xy"), &Paste{After: true}, "abx|yc"},
		{"gp text", "a|bc", vim.TextOf("xy"), &Paste{After: true, CursorAfter: true}, "abxy|c"},
		{"3p text", "|c", vim.TextOf("ab"), vim.WithCount(&Paste{After: true}, 3), "cababa|b"},
		{"p on empty line", "a\n|\nb", vim.TextOf("x"), &Paste{After: true}, "a\n|x\nb"},
		{"P block", "|ab\ncd", vim.BlockOf([]string{"x", "yy"}), &Paste{}, "|x ab\nyycd"},
		{"p block", "|ab\ncd", vim.BlockOf([]string{"x", "yy"}), &Paste{After: true}, "a|x b\ncyyd"},
		{"P block past end", "|ab", vim.BlockOf([]string{"1", "2"}), &Paste{}, "|1ab\n2"},
		{"P block short line", "ab|c\n", vim.BlockOf([]string{"1", "2"}), &Paste{}, "ab|1c\n  2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := vimtest.New(tt.text)
			require.NoError(t, ed.Registers().Yanked(tt.payload))
			require.NoError(t, tt.cmd.Execute(ed))
			assert.Equal(t, tt.want, ed.WithCursor())
		})
	}
}

func TestPasteSetsChangeMarks(t *testing.T) {
	ed := vimtest.New("a|bc")
	require.NoError(t, ed.Registers().Yanked(vim.TextOf("xy")))
	require.NoError(t, (&Paste{After: true}).Execute(ed))
	start, ok := ed.Cursor().Mark(platform.MarkLastChangeStart)
	require.True(t, ok)
	end, _ := ed.Cursor().Mark(platform.MarkLastChangeEnd)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)
}

func TestPasteUndoesAsOneChange(t *testing.T) {
	ed := vimtest.New("|a")
	require.NoError(t, ed.Registers().Yanked(vim.LinesOf("x")))
	require.NoError(t, vim.WithCount(&Paste{After: true}, 3).Execute(ed))
	assert.Equal(t, "a\nx\nx\nx", ed.Text())
	require.NoError(t, Undo().Execute(ed))
	assert.Equal(t, "a", ed.Text())
	require.NoError(t, Redo().Execute(ed))
	assert.Equal(t, "a\nx\nx\nx", ed.Text())
}

func TestPasteEmptyRegisterIsNoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z \n]{0,24}`).Draw(t, "text")
		pos := rapid.IntRange(0, len(text)).Draw(t, "pos")
		after := rapid.Bool().Draw(t, "after")
		count := rapid.IntRange(0, 5).Draw(t, "count")

		ed := vimtest.New(text)
		ed.SetPosition(pos, platform.StickyOnChange)
		before := ed.Position()
		err := vim.WithCount(&Paste{After: after}, count).Execute(ed)
		if err != nil {
			t.Fatalf("paste: %v", err)
		}
		if ed.Text() != text {
			t.Fatalf("text changed to %q", ed.Text())
		}
		if ed.Position() != before {
			t.Fatalf("cursor moved from %d to %d", before, ed.Position())
		}
		for _, mark := range []rune{platform.MarkLastChangeStart, platform.MarkLastChangeEnd} {
			if at, set := ed.Cursor().Mark(mark); set {
				t.Fatalf("mark %c set to %d", mark, at)
			}
		}
	})
}

func TestJoinCount(t *testing.T) {
	ed := vimtest.New("|a\nb\nc")
	require.NoError(t, vim.WithCount(&JoinCommand{Spaces: true}, 3).Execute(ed))
	assert.Equal(t, "a b| c", ed.WithCursor())

	ed = vimtest.New("a\n|b")
	err := (&JoinCommand{Spaces: true}).Execute(ed)
	assert.ErrorIs(t, err, vim.ErrNoMatch)
}

func TestReplaceCount(t *testing.T) {
	ed := vimtest.New("|abc")
	require.NoError(t, vim.WithCount(&ReplaceChar{Char: 'x'}, 3).Execute(ed))
	assert.Equal(t, "xx|x", ed.WithCursor())

	ed = vimtest.New("|abc")
	err := vim.WithCount(&ReplaceChar{Char: 'x'}, 4).Execute(ed)
	assert.ErrorIs(t, err, vim.ErrNoMatch)
	assert.Equal(t, "abc", ed.Text())
}

func TestUndoWithoutHistory(t *testing.T) {
	ed := vimtest.New("abc")
	assert.Error(t, Undo().Execute(ed))
}

func TestEnterInsert(t *testing.T) {
	tests := []struct {
		keys string
		text string
		want string
	}{
		{"i", "a|bc", "a|bc"},
		{"a", "a|bc", "ab|c"},
		{"a", "ab|c", "abc|"},
		{"I", "  a|bc", "  |abc"},
		{"gI", "  a|bc", "|  abc"},
		{"A", "a|bc\nd", "abc|\nd"},
		{"o", "a|b\nc", "ab\n|\nc"},
		{"O", "a\n|b", "a\n|\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			ed := vimtest.New(tt.text)
			run(t, ed, tt.keys)
			assert.Equal(t, tt.want, ed.WithCursor())
			mc, ok := ed.LastModeChange()
			require.True(t, ok)
			assert.Equal(t, vim.ModeInsert, mc.Name)
		})
	}
}

func TestOpenLineAutoIndent(t *testing.T) {
	opts := config.New()
	require.NoError(t, opts.Set("autoindent", "true"))
	ed := vimtest.New("\t|a", memory.WithConfiguration(opts))
	run(t, ed, "o")
	assert.Equal(t, "\ta\n\t|", ed.WithCursor())
}

func insertHint(t *testing.T, ed *vimtest.Editor) vim.InsertHint {
	t.Helper()
	mc, ok := ed.LastModeChange()
	require.True(t, ok)
	require.Len(t, mc.Hints, 1)
	return mc.Hints[0].(vim.InsertHint)
}

func TestInsertionRepeat(t *testing.T) {
	ed := vimtest.New("|ab\ncd")
	run(t, ed, "A")
	in := NewInsertion(insertHint(t, ed), "!")

	ed = vimtest.New("|ab\ncd")
	require.NoError(t, in.Execute(ed))
	assert.Equal(t, "ab|!\ncd", ed.WithCursor())

	ed = vimtest.New("|ab\ncd")
	require.NoError(t, in.WithCount(3).Execute(ed))
	assert.Equal(t, "ab!!|!\ncd", ed.WithCursor())
}

func TestInsertionRepeatsOpenLine(t *testing.T) {
	ed := vimtest.New("|a")
	require.NoError(t, lookup(t, table(), "o").Execute(ed))
	hint := insertHint(t, ed)
	assert.True(t, hint.EachCommand)

	ed = vimtest.New("|a")
	require.NoError(t, NewInsertion(hint, "x").WithCount(2).Execute(ed))
	assert.Equal(t, "a\nx\n|x", ed.WithCursor())
}

func TestChangeRepetitionTakesNewCount(t *testing.T) {
	ed := vimtest.New("|one two three")
	run(t, ed, "cw")
	in := NewInsertion(insertHint(t, ed), "X")

	ed = vimtest.New("|one two three")
	require.NoError(t, in.Execute(ed))
	assert.Equal(t, "|X two three", ed.WithCursor())

	ed = vimtest.New("|one two three")
	require.NoError(t, in.WithCount(2).Execute(ed))
	assert.Equal(t, "|X three", ed.WithCursor())
}

func TestCommandCounts(t *testing.T) {
	ed := vimtest.New("|a b c d e f g")
	cmd := vim.WithCount(lookup(t, table(), "d3w"), 2)
	require.NoError(t, cmd.Execute(ed))
	assert.Equal(t, "|g", ed.WithCursor())

	rep := vim.RepetitionOf(vim.WithCount(lookup(t, table(), "dw"), 2))
	require.NotNil(t, rep)
	ed = vimtest.New("|a b c d")
	require.NoError(t, vim.WithCount(rep, 3).Execute(ed))
	assert.Equal(t, "|d", ed.WithCursor())
}

func TestRepetitions(t *testing.T) {
	tb := table()
	assert.NotNil(t, vim.RepetitionOf(lookup(t, tb, "dw")))
	assert.NotNil(t, vim.RepetitionOf(lookup(t, tb, ">>")))
	assert.Nil(t, vim.RepetitionOf(lookup(t, tb, "yy")))
	assert.Nil(t, vim.RepetitionOf(lookup(t, tb, "cw")))
	assert.Nil(t, vim.RepetitionOf(lookup(t, tb, "i")))
	assert.Nil(t, vim.RepetitionOf(lookup(t, tb, "u")))
	assert.NotNil(t, vim.RepetitionOf(lookup(t, tb, "p")))
}

func TestParseSubstitute(t *testing.T) {
	s, err := ParseSubstitute(`#a\#b#c#gi`)
	require.NoError(t, err)
	assert.Equal(t, &Substitute{Pattern: "a#b", Replacement: "c", Global: true, IgnoreCase: true}, s)

	s, err = ParseSubstitute("/x")
	require.NoError(t, err)
	assert.Equal(t, &Substitute{Pattern: "x"}, s)

	_, err = ParseSubstitute("axbxc")
	assert.Error(t, err)
	_, err = ParseSubstitute("/a/b/z")
	assert.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name string
		text string
		sub  Substitute
		want string
	}{
		{"first match", "|foo bar foo", Substitute{Pattern: "foo", Replacement: "[&]"}, "|[foo] bar foo"},
		{"global", "|foo bar foo", Substitute{Pattern: "foo", Replacement: "x", Global: true}, "|x bar x"},
		{"groups", "|ab cd", Substitute{Pattern: `\(\w\+\) \(\w\+\)`, Replacement: `\2 \1`}, "|cd ab"},
		{"dollar", "|a", Substitute{Pattern: "a", Replacement: "$1"}, "|$1"},
		{"line break", "|a,b", Substitute{Pattern: ",", Replacement: `\r`}, "a\n|b"},
		{"whole buffer", "|foo\n  boo", Substitute{Pattern: "o", Replacement: "0", Global: true, Whole: true}, "f00\n  |b00"},
		{"ignore case", "|Foo", Substitute{Pattern: "foo", Replacement: "x", IgnoreCase: true}, "|x"},
		{"counted lines", "|a\na\na", Substitute{Pattern: "a", Replacement: "b", Lines: 2}, "b\n|b\na"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := vimtest.New(tt.text)
			sub := tt.sub
			require.NoError(t, sub.Execute(ed))
			assert.Equal(t, tt.want, ed.WithCursor())
		})
	}
}

func TestSubstituteErrors(t *testing.T) {
	ed := vimtest.New("abc")
	err := (&Substitute{Pattern: "z"}).Execute(ed)
	assert.ErrorIs(t, err, vim.ErrNoMatch)

	err = (&Substitute{}).Execute(ed)
	assert.ErrorIs(t, err, vim.ErrNoPrevious)

	ed.Registers().SetSearch(&vim.Search{Pattern: "b"})
	require.NoError(t, (&Substitute{Replacement: "x"}).Execute(ed))
	assert.Equal(t, "axc", ed.Text())
}

func TestRepeatSubstitution(t *testing.T) {
	ed := vimtest.New("|aa\naa")
	require.NoError(t, (&Substitute{Pattern: "a", Replacement: "b", Global: true}).Execute(ed))
	assert.Equal(t, "bb\naa", ed.Text())

	ed.SetPosition(3, platform.StickyOnChange)
	run(t, ed, "&")
	assert.Equal(t, "bb\nba", ed.Text())

	ed = vimtest.New("|aa\naa")
	require.NoError(t, (&Substitute{Pattern: "a", Replacement: "b", Global: true}).Execute(ed))
	run(t, ed, "g&")
	assert.Equal(t, "bb\nbb", ed.Text())

	err := (&RepeatSubstitution{}).Execute(vimtest.New("x"))
	assert.ErrorIs(t, err, vim.ErrNoPrevious)
}
