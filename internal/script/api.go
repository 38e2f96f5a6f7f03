package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/mode"
)

func (r *Runtime) install() {
	L := r.L
	L.SetGlobal("print", L.NewFunction(r.print))

	mod := L.NewTable()
	for name, fn := range map[string]lua.LGFunction{
		"set":         r.set,
		"option":      r.option,
		"map":         r.mapKeys,
		"unmap":       r.unmap,
		"surround":    r.surround,
		"command":     r.command,
		"exec":        r.exec,
		"feed":        r.feed,
		"register":    r.register,
		"setregister": r.setRegister,
		"text":        r.text,
		"cursor":      r.cursor,
		"line":        r.line,
		"mode":        r.mode,
		"message":     r.message,
	} {
		L.SetField(mod, name, L.NewFunction(fn))
	}
	L.SetGlobal("modal", mod)
}

func (r *Runtime) editor(L *lua.LState) vim.Editor {
	if r.host.Editor == nil {
		L.RaiseError("no editor")
	}
	return r.host.Editor
}

// raise turns err into a Lua error. It does not return when err is set.
func raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", vim.Message(err))
	}
}

// set(name, value?) sets an option. A missing value turns a boolean on.
func (r *Runtime) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := "true"
	if L.GetTop() >= 2 {
		value = L.ToStringMeta(L.Get(2)).String()
		if v, ok := L.Get(2).(*lua.LTable); ok {
			value = joinList(v)
		}
	}
	raise(L, r.editor(L).Configuration().Set(name, value))
	return 0
}

func joinList(t *lua.LTable) string {
	var items []string
	t.ForEach(func(_, v lua.LValue) {
		items = append(items, v.String())
	})
	return strings.Join(items, ",")
}

// option(name) returns an option value, or nil for an unknown name.
func (r *Runtime) option(L *lua.LState) int {
	v, ok := r.editor(L).Configuration().Get(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

// map(mode, lhs, rhs, opts?) adds a mapping. opts.noremap makes it
// non-recursive.
func (r *Runtime) mapKeys(L *lua.LState) int {
	modeName := L.CheckString(1)
	lhs := parseKeys(L, 2)
	rhs := parseKeys(L, 3)
	recursive := true
	if opts, ok := L.Get(4).(*lua.LTable); ok {
		recursive = !lua.LVAsBool(opts.RawGetString("noremap"))
	}
	if r.host.Keymaps == nil {
		L.RaiseError("map: no keymaps")
	}
	names, err := keymap.ForMode(modeName)
	raise(L, err)
	for _, name := range names {
		raise(L, r.host.Keymaps.Map(name, keymap.Remapping{LHS: lhs, RHS: rhs, Recursive: recursive}))
	}
	return 0
}

// unmap(mode, lhs) removes a mapping.
func (r *Runtime) unmap(L *lua.LState) int {
	modeName := L.CheckString(1)
	lhs := parseKeys(L, 2)
	if r.host.Keymaps == nil {
		L.RaiseError("unmap: no keymaps")
	}
	names, err := keymap.ForMode(modeName)
	raise(L, err)
	removed := false
	for _, name := range names {
		if r.host.Keymaps.Unmap(name, lhs) == nil {
			removed = true
		}
	}
	if !removed {
		raise(L, keymap.ErrNoMapping)
	}
	return 0
}

func parseKeys(L *lua.LState, n int) []key.Stroke {
	strokes, err := key.ParseSequence(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	if len(strokes) == 0 {
		L.ArgError(n, "empty key sequence")
	}
	return strokes
}

// surround(key, definition) defines a delimiter.
func (r *Runtime) surround(L *lua.LState) int {
	if r.host.Surround == nil {
		L.RaiseError("surround: not available")
	}
	raise(L, r.host.Surround.Define(L.CheckString(1), L.CheckString(2)))
	return 0
}

// command(name, fn) adds an ex command. fn receives the argument text and
// whether ! was given; a string it returns is shown as a message.
func (r *Runtime) command(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if r.host.Evaluators == nil {
		L.RaiseError("command: no ex commands")
	}
	r.host.Evaluators.RegisterFunc(name, func(ed vim.Editor, cmd mode.ExCommand) error {
		return r.do(cmd.Name, func() error {
			if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
				lua.LString(cmd.Args), lua.LBool(cmd.Bang)); err != nil {
				return err
			}
			ret := r.L.Get(-1)
			r.L.Pop(1)
			if s, ok := ret.(lua.LString); ok {
				ed.UI().SetInfoMessage(string(s))
			}
			return nil
		})
	})
	return 0
}

// exec(line) runs an ex command line.
func (r *Runtime) exec(L *lua.LState) int {
	raise(L, r.editor(L).Evaluate(strings.TrimPrefix(L.CheckString(1), ":")))
	return 0
}

// feed(keys) queues keys to be handled after the current command.
func (r *Runtime) feed(L *lua.LState) int {
	r.editor(L).FeedKeys(parseKeys(L, 1))
	return 0
}

func (r *Runtime) registerName(L *lua.LState) vim.Register {
	name := []rune(L.CheckString(1))
	if len(name) != 1 {
		L.ArgError(1, "register name must be one character")
	}
	reg, err := r.editor(L).Registers().Register(name[0])
	raise(L, err)
	return reg
}

// register(name) returns the text of a register.
func (r *Runtime) register(L *lua.LState) int {
	L.Push(lua.LString(r.registerName(L).Content().String()))
	return 1
}

// setregister(name, text) writes a register. Text ending in a newline is
// stored linewise.
func (r *Runtime) setRegister(L *lua.LState) int {
	reg := r.registerName(L)
	text := L.CheckString(2)
	content := vim.TextOf(text)
	if strings.HasSuffix(text, "\n") {
		content = vim.LinesOf(text)
	}
	raise(L, reg.SetContent(content))
	return 0
}

func (r *Runtime) text(L *lua.LState) int {
	c := r.editor(L).Content()
	L.Push(lua.LString(c.Text(0, c.TextLength())))
	return 1
}

// cursor() returns the cursor as a zero-based byte offset.
func (r *Runtime) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(r.editor(L).Position()))
	return 1
}

// line() returns the one-based cursor line.
func (r *Runtime) line(L *lua.LState) int {
	ed := r.editor(L)
	L.Push(lua.LNumber(ed.Content().LineInformationOfOffset(ed.Position()).Number + 1))
	return 1
}

func (r *Runtime) mode(L *lua.LState) int {
	L.Push(lua.LString(r.editor(L).ModeName()))
	return 1
}

func (r *Runtime) message(L *lua.LState) int {
	r.editor(L).UI().SetInfoMessage(L.CheckString(1))
	return 0
}
