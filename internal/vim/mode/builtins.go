package mode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/keymap"
	"github.com/dshills/modal/internal/vim/operator"
	"github.com/dshills/modal/internal/vim/textobj"
)

// optionApplier is implemented by configurations that understand :set
// arguments.
type optionApplier interface {
	Apply(arg string) (string, error)
}

// RegisterBuiltins adds the built in ex commands. Mapping commands edit
// keymaps.
func RegisterBuiltins(e *Evaluators, keymaps *keymap.Registry) {
	e.RegisterFunc("se[t]", setOptions)

	for _, spec := range []string{
		"map", "nm[ap]", "vm[ap]", "xm[ap]", "om[ap]", "im[ap]",
		"no[remap]", "nn[oremap]", "vn[oremap]", "xn[oremap]", "ono[remap]", "ino[remap]",
	} {
		e.Register(spec, mapCommand{keymaps: keymaps})
	}
	for _, spec := range []string{"unm[ap]", "nun[map]", "vu[nmap]", "xu[nmap]", "ou[nmap]", "iu[nmap]"} {
		e.Register(spec, unmapCommand{keymaps: keymaps})
	}
	for _, spec := range []string{"mapc[lear]", "nmapc[lear]", "vmapc[lear]", "xmapc[lear]", "omapc[lear]", "imapc[lear]"} {
		e.Register(spec, mapClearCommand{keymaps: keymaps})
	}

	e.RegisterFunc("reg[isters]", showRegisters)
	e.RegisterFunc("di[splay]", showRegisters)
	e.RegisterFunc("marks", showMarks)

	e.RegisterFunc("s[ubstitute]", substitute)
	e.RegisterFunc("&", repeatSubstitute)
	e.RegisterFunc("noh[lsearch]", hideSearch)

	e.RegisterFunc("u[ndo]", func(ed vim.Editor, _ ExCommand) error { return operator.Undo().Execute(ed) })
	e.RegisterFunc("red[o]", func(ed vim.Editor, _ ExCommand) error { return operator.Redo().Execute(ed) })

	e.RegisterFunc("d[elete]", lineOperation(operator.Delete{}))
	e.RegisterFunc("y[ank]", lineOperation(operator.Yank{}))
	e.RegisterFunc(">", lineOperation(operator.Shift{}))
	e.RegisterFunc("<", lineOperation(operator.Shift{Left: true}))
	e.RegisterFunc("j[oin]", join)
	e.RegisterFunc("norm[al]", normalKeys)
}

func setOptions(ed vim.Editor, cmd ExCommand) error {
	opts, ok := ed.Configuration().(optionApplier)
	if !ok {
		return vim.Errorf("options cannot be changed")
	}
	var shown []string
	for _, arg := range strings.Fields(cmd.Args) {
		out, err := opts.Apply(arg)
		if err != nil {
			return vim.Errorf("%w", err)
		}
		if out != "" {
			shown = append(shown, out)
		}
	}
	ed.UI().SetInfoMessage(strings.Join(shown, "  "))
	return nil
}

// mapCommand implements the :map family. The keymaps come from the
// command name, recursion from the absence of "nore".
type mapCommand struct {
	keymaps *keymap.Registry
}

func (m mapCommand) Evaluate(ed vim.Editor, cmd ExCommand) error {
	names, err := keymap.ForMode(cmd.Name)
	if err != nil {
		return vim.Errorf("%w", err)
	}
	lhs, rhs, _ := strings.Cut(cmd.Args, " ")
	rhs = strings.TrimLeft(rhs, " \t")
	if lhs == "" {
		listMappings(ed, m.keymaps, names)
		return nil
	}
	if rhs == "" {
		return vim.Errorf("missing right-hand side: %s", cmd.Line)
	}
	from, err := key.ParseSequence(lhs)
	if err != nil {
		return vim.Errorf("%w", err)
	}
	to, err := key.ParseSequence(rhs)
	if err != nil {
		return vim.Errorf("%w", err)
	}
	recursive := !strings.Contains(cmd.Name, "noremap")
	for _, name := range names {
		if err := m.keymaps.Map(name, keymap.Remapping{LHS: from, RHS: to, Recursive: recursive}); err != nil {
			return vim.Errorf("%w", err)
		}
	}
	return nil
}

func listMappings(ed vim.Editor, keymaps *keymap.Registry, names []string) {
	var lines []string
	for _, name := range names {
		for _, m := range keymaps.Mappings(name) {
			lines = append(lines, string(name[0])+"  "+m.String())
		}
	}
	if len(lines) == 0 {
		ed.UI().SetInfoMessage("No mapping found")
		return
	}
	ed.UI().SetInfoMessage(strings.Join(lines, "\n"))
}

type unmapCommand struct {
	keymaps *keymap.Registry
}

func (u unmapCommand) Evaluate(ed vim.Editor, cmd ExCommand) error {
	names, err := keymap.ForMode(strings.Replace(cmd.Name, "unmap", "map", 1))
	if err != nil {
		return vim.Errorf("%w", err)
	}
	if cmd.Args == "" {
		return vim.Errorf("argument required")
	}
	lhs, err := key.ParseSequence(cmd.Args)
	if err != nil {
		return vim.Errorf("%w", err)
	}
	removed := false
	for _, name := range names {
		if u.keymaps.Unmap(name, lhs) == nil {
			removed = true
		}
	}
	if !removed {
		return vim.Errorf("%w: %s", keymap.ErrNoMapping, cmd.Args)
	}
	return nil
}

type mapClearCommand struct {
	keymaps *keymap.Registry
}

func (c mapClearCommand) Evaluate(_ vim.Editor, cmd ExCommand) error {
	names, err := keymap.ForMode(strings.TrimSuffix(cmd.Name, "clear"))
	if err != nil {
		return vim.Errorf("%w", err)
	}
	for _, name := range names {
		c.keymaps.Clear(name)
	}
	return nil
}

// showRegisters lists the non-empty registers, or only those named in the
// arguments. Line breaks show as ^J.
func showRegisters(ed vim.Editor, cmd ExCommand) error {
	regs := ed.Registers()
	only := strings.ReplaceAll(cmd.Args, " ", "")
	lines := []string{"Type Name Content"}
	for _, name := range regs.Names() {
		if only != "" && !strings.ContainsRune(only, name) {
			continue
		}
		reg, err := regs.Register(name)
		if err != nil {
			continue
		}
		content := reg.Content()
		if content.IsEmpty() {
			continue
		}
		kind := "c"
		switch content.Type {
		case vim.Lines:
			kind = "l"
		case vim.TextRectangle:
			kind = "b"
		}
		text := strings.ReplaceAll(content.String(), "\n", "^J")
		lines = append(lines, fmt.Sprintf("  %s  \"%c   %s", kind, name, text))
	}
	ed.UI().SetInfoMessage(strings.Join(lines, "\n"))
	return nil
}

// showMarks lists the set marks with their one-based line, zero-based
// column and line text.
func showMarks(ed vim.Editor, _ ExCommand) error {
	c := ed.Content()
	cur := ed.Cursor()
	lines := []string{"mark line  col text"}
	for _, name := range cur.MarkNames() {
		pos, ok := cur.Mark(name)
		if !ok {
			continue
		}
		pos = vim.ClampPosition(c, pos)
		line := c.LineInformationOfOffset(pos)
		col := utf8.RuneCountInString(c.Text(line.Begin, pos-line.Begin))
		lines = append(lines, fmt.Sprintf(" %c %6d %4d %s", name, line.Number+1, col, vim.LineText(c, line)))
	}
	ed.UI().SetInfoMessage(strings.Join(lines, "\n"))
	return nil
}

// substitute runs :s over the range, or the cursor line without one.
func substitute(ed vim.Editor, cmd ExCommand) error {
	if cmd.Args == "" {
		return repeatSubstitute(ed, cmd)
	}
	s, err := operator.ParseSubstitute(cmd.Args)
	if err != nil {
		return err
	}
	if cmd.Range != nil {
		moveToLine(ed, cmd.Range.Start)
		s.Lines = cmd.Range.Lines()
	}
	return s.Execute(ed)
}

// repeatSubstitute is :& and :&&. The second form keeps the flags.
func repeatSubstitute(ed vim.Editor, cmd ExCommand) error {
	last, ok := ed.Registers().LastSubstitution().(*operator.Substitute)
	if !ok {
		return vim.Errorf("%w: no previous substitute", vim.ErrNoPrevious)
	}
	s := *last
	if !strings.HasPrefix(cmd.Args, "&") {
		s.Global, s.IgnoreCase, s.MatchCase = false, false, false
	}
	s.Whole, s.Lines = false, 1
	if cmd.Range != nil {
		moveToLine(ed, cmd.Range.Start)
		s.Lines = cmd.Range.Lines()
	}
	return s.Execute(ed)
}

func hideSearch(ed vim.Editor, _ ExCommand) error {
	if s := ed.Registers().Search(); s != nil {
		cp := *s
		cp.Hidden = true
		ed.Registers().SetSearch(&cp)
	}
	return nil
}

func moveToLine(ed vim.Editor, n int) {
	c := ed.Content()
	ed.SetPosition(c.LineInformation(n).Begin, platform.StickyOnChange)
}

// lineOperation applies op to the lines of the range, or to the cursor
// line. A single character argument names the register, as in ":d a".
func lineOperation(op vim.TextOperation) func(ed vim.Editor, cmd ExCommand) error {
	return func(ed vim.Editor, cmd ExCommand) error {
		lines := 1
		if cmd.Range != nil {
			moveToLine(ed, cmd.Range.Start)
			lines = cmd.Range.Lines()
		}
		regs := ed.Registers()
		if name, size := utf8.DecodeRuneInString(cmd.Args); size > 0 {
			if size != len(cmd.Args) {
				return vim.Errorf("trailing characters: %s", cmd.Args)
			}
			if err := regs.SetActive(name); err != nil {
				return err
			}
			defer regs.ActivateDefault()
		}
		return vim.WithCount(operator.New(op, textobj.Lines()), lines).Execute(ed)
	}
}

func join(ed vim.Editor, cmd ExCommand) error {
	lines := 2
	if cmd.Range != nil {
		moveToLine(ed, cmd.Range.Start)
		lines = max(cmd.Range.Lines(), 2)
	}
	return vim.WithCount(&operator.JoinCommand{Spaces: !cmd.Bang}, lines).Execute(ed)
}

// normalKeys queues the arguments as keys typed in normal mode.
func normalKeys(ed vim.Editor, cmd ExCommand) error {
	strokes, err := key.ParseSequence(cmd.Args)
	if err != nil {
		return vim.Errorf("%w", err)
	}
	if ed.ModeName() != vim.ModeNormal {
		if err := ed.ChangeMode(vim.ModeNormal); err != nil {
			return err
		}
	}
	ed.FeedKeys(strokes)
	return nil
}
