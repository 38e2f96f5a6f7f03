package textobj

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// Objects returns the i and a text object tables.
func Objects() state.State[vim.TextObject] {
	return state.New(
		state.Trans(key.Rune('i'), objectTable(true)),
		state.Trans(key.Rune('a'), objectTable(false)),
	)
}

func objectTable(inner bool) state.State[vim.TextObject] {
	r := key.Rune
	leaf := state.Leaf[vim.TextObject]
	delimited := func(t DelimitedText) vim.TextObject {
		return &Delimited{Text: t, Inner: inner}
	}
	paren, brace := Pair{'(', ')'}, Pair{'{', '}'}
	bracket, angle := Pair{'[', ']'}, Pair{'<', '>'}

	bindings := []state.Binding[vim.TextObject]{
		leaf(r('w'), &Word{Outer: !inner}),
		leaf(r('W'), &Word{Outer: !inner, Big: true}),
		leaf(r('s'), &Sentence{Outer: !inner}),
		leaf(r('p'), &Paragraph{Outer: !inner}),
		leaf(r('('), delimited(paren)),
		leaf(r(')'), delimited(paren)),
		leaf(r('b'), delimited(paren)),
		leaf(r('{'), delimited(brace)),
		leaf(r('}'), delimited(brace)),
		leaf(r('B'), delimited(brace)),
		leaf(r('['), delimited(bracket)),
		leaf(r(']'), delimited(bracket)),
		leaf(r('<'), delimited(angle)),
		leaf(r('>'), delimited(angle)),
		leaf(r('"'), delimited(Quote('"'))),
		leaf(r('\''), delimited(Quote('\''))),
		leaf(r('`'), delimited(Quote('`'))),
		leaf(r('t'), delimited(Tag{})),
		leaf(r('c'), &Comment{Outer: !inner}),
		leaf(r('C'), &Comment{Outer: !inner, Linewise: true}),
	}
	if inner {
		bindings = append(bindings,
			leaf(r('i'), &Indent{}),
			leaf(r('I'), &Indent{}),
		)
	} else {
		bindings = append(bindings,
			leaf(r('i'), &Indent{IncludeFirst: true}),
			leaf(r('I'), &Indent{IncludeFirst: true, IncludeLast: true}),
		)
	}
	return state.New(bindings...)
}

// Bindings returns the operator-pending table: the i and a objects plus
// every motion.
func Bindings(motions state.State[vim.Motion]) state.State[vim.TextObject] {
	return state.Union(Objects(), state.Convert(motions, func(m vim.Motion) vim.TextObject {
		return FromMotion(m)
	}))
}
