package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/mode"
	"github.com/dshills/modal/internal/vim/surround"
	"github.com/dshills/modal/internal/vim/vimtest"
)

type fixture struct {
	ed         *vimtest.Editor
	keymaps    *keymap.Registry
	evaluators *mode.Evaluators
	surround   *surround.Registry
	rt         *Runtime
}

func newFixture(t *testing.T, text string, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		ed:         vimtest.New(text),
		keymaps:    keymap.NewRegistry(),
		evaluators: mode.NewEvaluators(),
		surround:   surround.NewRegistry(),
	}
	f.rt = New(Host{Editor: f.ed, Keymaps: f.keymaps, Evaluators: f.evaluators, Surround: f.surround}, opts...)
	f.rt.Register(f.evaluators)
	t.Cleanup(f.rt.Close)
	return f
}

func TestOptions(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`
		modal.set("tabstop", 4)
		modal.set("expandtab")
		modal.set("matchpairs", {"(:)", "<:>"})
		modal.setregister("a", modal.option("tabstop"))
	`))
	cfg := f.ed.Configuration()
	assert.Equal(t, 4, cfg.TabStop())
	assert.True(t, cfg.ExpandTab())
	assert.Equal(t, []string{"(:)", "<:>"}, cfg.MatchPairs())

	reg, _ := f.ed.Registers().Register('a')
	assert.Equal(t, "4", reg.Content().String())

	err := f.rt.Run(`modal.set("bogus", 1)`)
	require.Error(t, err)
	var execErr *vim.ExecutionError
	assert.ErrorAs(t, err, &execErr)
}

func TestMappings(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`
		modal.map("n", "Y", "y$", {noremap = true})
		modal.map("", "<C-x>", "dd")
	`))
	m := f.keymaps.Mappings(keymap.Normal)
	require.Len(t, m, 2)
	assert.Equal(t, key.MustParseSequence("<C-x>"), m[0].LHS)
	assert.True(t, m[0].Recursive)
	assert.Equal(t, key.MustParseSequence("Y"), m[1].LHS)
	assert.False(t, m[1].Recursive)
	assert.Len(t, f.keymaps.Mappings(keymap.Visual), 1)

	require.NoError(t, f.rt.Run(`modal.unmap("n", "Y")`))
	assert.Len(t, f.keymaps.Mappings(keymap.Normal), 1)
	assert.Error(t, f.rt.Run(`modal.unmap("n", "Y")`))
	assert.Error(t, f.rt.Run(`modal.map("q", "a", "b")`))
}

func TestSurroundDefinition(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`modal.surround("q", "“\\r”")`))
	d, ok := f.surround.Lookup('q')
	require.True(t, ok)
	assert.Equal(t, surround.Delimiter{Left: "“", Right: "”"}, d)

	assert.Error(t, f.rt.Run(`modal.surround("qq", "a\\rb")`))
}

func TestExecAndFeed(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`
		modal.exec(":s/a/b/")
		modal.feed("dw<Esc>")
	`))
	assert.Equal(t, []string{"s/a/b/"}, f.ed.Evaluated)
	assert.Equal(t, key.MustParseSequence("dw<Esc>"), f.ed.Fed)
}

func TestBufferQueries(t *testing.T) {
	f := newFixture(t, "ab\nc|d")
	require.NoError(t, f.rt.Run(`
		modal.setregister("a", modal.text())
		modal.setregister("b", tostring(modal.cursor()) .. ":" .. tostring(modal.line()) .. ":" .. modal.mode())
		modal.setregister("c", "line\n")
		modal.message("hi")
	`))
	regs := f.ed.Registers()
	a, _ := regs.Register('a')
	b, _ := regs.Register('b')
	c, _ := regs.Register('c')
	assert.Equal(t, "ab\ncd", a.Content().String())
	assert.Equal(t, "4:2:normal", b.Content().String())
	assert.Equal(t, vim.Lines, c.Content().Type)
	assert.Equal(t, "hi", f.ed.UI().InfoMessage())
}

func TestUserCommand(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`
		modal.command("Greet", function(args, bang)
			if bang then
				return "HELLO " .. args
			end
			return "hello " .. args
		end)
	`))
	require.NoError(t, f.evaluators.Evaluate(f.ed, "Greet world"))
	assert.Equal(t, "hello world", f.ed.UI().InfoMessage())
	require.NoError(t, f.evaluators.Evaluate(f.ed, "Greet! you"))
	assert.Equal(t, "HELLO you", f.ed.UI().InfoMessage())

	require.NoError(t, f.rt.Run(`modal.command("Fail", function() error("nope") end)`))
	err := f.evaluators.Evaluate(f.ed, "Fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestSourceAndLuaCommands(t *testing.T) {
	f := newFixture(t, "abc")
	path := filepath.Join(t.TempDir(), "init.lua")
	require.NoError(t, os.WriteFile(path, []byte(`modal.set("shiftwidth", 2)`), 0o644))

	require.NoError(t, f.evaluators.Evaluate(f.ed, "source "+path))
	assert.Equal(t, 2, f.ed.Configuration().ShiftWidth())

	require.NoError(t, f.evaluators.Evaluate(f.ed, `lua modal.message("from lua")`))
	assert.Equal(t, "from lua", f.ed.UI().InfoMessage())

	assert.Error(t, f.evaluators.Evaluate(f.ed, "so"))
	assert.Error(t, f.evaluators.Evaluate(f.ed, "so "+filepath.Join(t.TempDir(), "missing.lua")))
}

func TestSandbox(t *testing.T) {
	f := newFixture(t, "abc")
	assert.Error(t, f.rt.Run(`dofile("/etc/passwd")`))
	assert.Error(t, f.rt.Run(`os.exit(1)`))
	assert.Error(t, f.rt.Run(`io.write("x")`))
	require.NoError(t, f.rt.Run(`modal.message(string.upper("ok") .. math.floor(1.5))`))
	assert.Equal(t, "OK1", f.ed.UI().InfoMessage())
}

func TestPrintShowsMessage(t *testing.T) {
	f := newFixture(t, "abc")
	require.NoError(t, f.rt.Run(`print("a", 1)`))
	assert.Equal(t, "a\t1", f.ed.UI().InfoMessage())
}

func TestTimeout(t *testing.T) {
	f := newFixture(t, "abc", WithTimeout(50*time.Millisecond))
	err := f.rt.Run(`while true do end`)
	require.Error(t, err)

	require.NoError(t, f.rt.Run(`modal.message("still usable")`))
	assert.Equal(t, "still usable", f.ed.UI().InfoMessage())
}

func TestClosed(t *testing.T) {
	f := newFixture(t, "abc")
	f.rt.Close()
	assert.ErrorIs(t, f.rt.Run(`x = 1`), ErrClosed)
}
