package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/vimtest"
)

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

func typed(keys string) []key.Stroke {
	return key.MustParseSequence(keys)
}

func TestRecordAndStore(t *testing.T) {
	ed := vimtest.New("abc")
	rec := NewRecorder()
	var events []bool
	rec.OnChange(func(recording bool, _ rune) { events = append(events, recording) })
	table := Bindings(rec)

	require.NoError(t, lookup(t, table, "qa").Execute(ed))
	assert.True(t, rec.IsRecording())
	assert.Equal(t, 'a', rec.Register())

	for _, s := range typed("dw<Esc>q") {
		rec.Record(s)
	}
	rec.Record(key.Rune('x').AsVirtual())

	cmd := lookup(t, table, "q")
	require.IsType(t, &StopRecording{}, cmd)
	require.NoError(t, cmd.Execute(ed))
	assert.False(t, rec.IsRecording())

	reg, err := ed.Registers().Register('a')
	require.NoError(t, err)
	assert.Equal(t, "dw<Esc>", reg.Content().String())
	assert.Equal(t, []bool{true, false}, events)
}

func TestRecordAppendsToUppercaseRegister(t *testing.T) {
	ed := vimtest.New("abc")
	reg, err := ed.Registers().Register('a')
	require.NoError(t, err)
	require.NoError(t, reg.SetContent(vim.TextOf("x")))

	rec := NewRecorder()
	require.NoError(t, rec.Start('A'))
	for _, s := range typed("jq") {
		rec.Record(s)
	}
	require.NoError(t, (&StopRecording{Recorder: rec}).Execute(ed))
	assert.Equal(t, "xj", reg.Content().String())
}

func TestRecorderRejects(t *testing.T) {
	rec := NewRecorder()
	assert.ErrorIs(t, rec.Start('%'), vim.ErrInvalidRegister)
	require.NoError(t, rec.Start('b'))
	assert.Error(t, rec.Start('c'))

	_, _, ok := NewRecorder().Stop()
	assert.False(t, ok)
	assert.Zero(t, NewRecorder().Register())
}

func TestPlayFeedsRegister(t *testing.T) {
	ed := vimtest.New("abc")
	reg, _ := ed.Registers().Register('q')
	require.NoError(t, reg.SetContent(vim.TextOf("x<lt>j")))

	require.NoError(t, lookup(t, Bindings(NewRecorder()), "@q").Execute(ed))
	assert.Equal(t, typed("x<lt>j"), ed.Fed)
	assert.Equal(t, 'q', ed.Registers().LastMacro())

	ed.Fed = nil
	require.NoError(t, vim.WithCount(&Play{Register: '@'}, 2).Execute(ed))
	assert.Equal(t, typed("x<lt>jx<lt>j"), ed.Fed)
}

func TestPlayLinesEndsWithEnter(t *testing.T) {
	ed := vimtest.New("abc")
	reg, _ := ed.Registers().Register('a')
	require.NoError(t, reg.SetContent(vim.LinesOf("dd")))

	require.NoError(t, (&Play{Register: 'a'}).Execute(ed))
	assert.Equal(t, typed("dd<CR>"), ed.Fed)
}

func TestPlayErrors(t *testing.T) {
	ed := vimtest.New("abc")
	assert.ErrorIs(t, (&Play{Register: '@'}).Execute(ed), vim.ErrNoPrevious)
	assert.ErrorIs(t, (&Play{Register: 'z'}).Execute(ed), vim.ErrEmptyRegister)
	assert.ErrorIs(t, (&Play{Register: ':'}).Execute(ed), vim.ErrNoPrevious)
	assert.Empty(t, ed.Fed)
}

func TestPlayCommandLine(t *testing.T) {
	ed := vimtest.New("abc")
	ed.Registers().SetLastCommandLine("s/a/b/")

	require.NoError(t, vim.WithCount(&Play{Register: ':'}, 2).Execute(ed))
	assert.Equal(t, []string{"s/a/b/", "s/a/b/"}, ed.Evaluated)
	assert.Equal(t, ':', ed.Registers().LastMacro())
}

func TestBindingsRejectInvalidNames(t *testing.T) {
	table := Bindings(NewRecorder())
	tr, ok := table.Press(key.Rune('q'))
	require.True(t, ok)
	_, ok = tr.Next().Press(key.Rune('%'))
	assert.False(t, ok)

	tr, ok = table.Press(key.Rune('@'))
	require.True(t, ok)
	_, ok = tr.Next().Press(key.Rune('!'))
	assert.False(t, ok)
}
