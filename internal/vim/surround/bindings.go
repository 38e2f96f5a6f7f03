package surround

import (
	"strings"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/mode"
	"github.com/dshills/modal/internal/vim/textobj"
)

// targets is the table read after ds and cs.
func targets() state.State[Target] {
	r := key.Rune
	var bindings []state.Binding[Target]
	add := func(t Target, keys ...rune) {
		for _, k := range keys {
			bindings = append(bindings, state.Leaf(r(k), t))
		}
	}
	paren, brace := textobj.Pair{Open: '(', Close: ')'}, textobj.Pair{Open: '{', Close: '}'}
	bracket, angle := textobj.Pair{Open: '[', Close: ']'}, textobj.Pair{Open: '<', Close: '>'}

	add(Target{Text: paren, Spaced: true}, '(')
	add(Target{Text: paren}, ')', 'b')
	add(Target{Text: brace, Spaced: true}, '{')
	add(Target{Text: brace}, '}', 'B')
	add(Target{Text: bracket, Spaced: true}, '[')
	add(Target{Text: bracket}, ']', 'r')
	add(Target{Text: angle}, '<', '>', 'a')
	add(Target{Text: textobj.Tag{}}, 't')
	for _, q := range []rune{'"', '\'', '`'} {
		add(Target{Text: textobj.Quote(q)}, q)
	}
	return state.New(bindings...)
}

// Normal returns the ds, cs, ys and yss bindings. objects is the
// operator-pending table ys reads its text object from.
func (r *Registry) Normal(objects state.State[vim.TextObject]) state.State[vim.Command] {
	k := key.Rune
	add := func(obj vim.TextObject) state.State[vim.Command] {
		return state.Convert(r.State(), func(d Delimiter) vim.Command {
			return &AddDelimiters{Object: obj, To: d}
		})
	}
	line := state.New(state.Leaf[vim.TextObject](k('s'), textobj.InnerLines()))

	return state.New(
		state.Bind(k('d'), state.Trans(k('s'), state.Convert(targets(), func(t Target) vim.Command {
			return &DeleteDelimiters{Target: t}
		}))),
		state.Bind(k('c'), state.Trans(k('s'), state.Then(targets(), func(t Target) state.State[vim.Command] {
			return state.Convert(r.State(), func(d Delimiter) vim.Command {
				return &ChangeDelimiters{Target: t, To: d}
			})
		}))),
		state.Bind(k('y'), state.Trans(k('s'),
			state.Then(vim.CountingTextObjects(state.Union(line, objects)), add))),
	)
}

// Visual returns S and gS. gS always puts the delimiters on lines of
// their own.
func (r *Registry) Visual() state.State[vim.Command] {
	k := key.Rune
	selection := func(ownLines bool) state.State[vim.Command] {
		return state.Convert(r.State(), func(d Delimiter) vim.Command {
			return &SurroundSelection{To: d, OwnLines: ownLines}
		})
	}
	return state.New(
		state.Trans(k('S'), selection(false)),
		state.Bind(k('g'), state.Trans(k('S'), selection(true))),
	)
}

// Evaluate runs :surround {char} {left}\r{right}.
func (r *Registry) Evaluate(_ vim.Editor, cmd mode.ExCommand) error {
	args := strings.Fields(cmd.Args)
	if len(args) != 2 {
		return vim.ConfigErrorf(":surround expects a key and a definition")
	}
	return r.Define(args[0], args[1])
}

// Register adds :surround to the ex commands.
func (r *Registry) Register(e *mode.Evaluators) {
	e.Register("surround", r)
}
