package motion

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
	"github.com/dshills/modal/internal/vim"
)

// Bindings returns the motion table. pairs drives "%".
func Bindings(pairs *Pairs) state.State[vim.Motion] {
	r := key.Rune
	leaf := state.Leaf[vim.Motion]
	return state.New(
		leaf(r('h'), Left()),
		leaf(r('j'), Down()),
		leaf(r('k'), Up()),
		leaf(r('l'), Right()),
		leaf(key.Special(key.KeyLeft), Left()),
		leaf(key.Special(key.KeyDown), Down()),
		leaf(key.Special(key.KeyUp), Up()),
		leaf(key.Special(key.KeyRight), Right()),
		leaf(r(' '), RightAcrossLines()),
		leaf(key.Special(key.KeyBackspace), LeftAcrossLines()),
		leaf(r('|'), Column()),
		leaf(key.Special(key.KeyEnter), DownFirstNonBlank()),
		leaf(r('+'), DownFirstNonBlank()),
		leaf(r('-'), UpFirstNonBlank()),
		leaf(r('_'), DownLessOneFirstNonBlank()),

		leaf(r('w'), WordRight(false)),
		leaf(r('W'), WordRight(true)),
		leaf(r('b'), WordLeft(false)),
		leaf(r('B'), WordLeft(true)),
		leaf(r('e'), WordEndRight(false)),
		leaf(r('E'), WordEndRight(true)),
		leaf(r('}'), ParagraphForward()),
		leaf(r('{'), ParagraphBackward()),
		leaf(r(')'), SentenceForward()),
		leaf(r('('), SentenceBackward()),

		leaf(r('0'), ColumnZero()),
		leaf(r('^'), LineStart()),
		leaf(r('$'), LineEnd()),
		leaf(key.Special(key.KeyHome), LineStart()),
		leaf(key.Special(key.KeyEnd), LineEnd()),
		leaf(key.Special(key.KeyHome).WithModifiers(key.ModCtrl), FirstLine()),
		leaf(key.Special(key.KeyEnd).WithModifiers(key.ModCtrl), LastCharacter()),
		leaf(r('G'), LastLine()),
		leaf(r('%'), Percent(pairs)),

		leaf(r(';'), &ContinueFinding{}),
		leaf(r(','), &ContinueFinding{Reverse: true}),
		state.Trans(r('f'), FindKeys(false, false)),
		state.Trans(r('F'), FindKeys(true, false)),
		state.Trans(r('t'), FindKeys(false, true)),
		state.Trans(r('T'), FindKeys(true, true)),
		state.Trans(r('\''), MarkKeys(true)),
		state.Trans(r('`'), MarkKeys(false)),

		leaf(r('n'), &SearchResult{}),
		leaf(r('N'), &SearchResult{Reverse: true}),
		leaf(r('*'), &WordSearch{}),
		leaf(r('#'), &WordSearch{Backward: true}),

		state.Bind(r('['),
			leaf(r('('), Unmatched('(', ')', false)),
			leaf(r('{'), Unmatched('{', '}', false)),
			leaf(r('m'), Method('{', false)),
			leaf(r('M'), Method('}', false)),
			leaf(r('['), Section('{', false)),
			leaf(r(']'), Section('}', false)),
		),
		state.Bind(r(']'),
			leaf(r(')'), Unmatched('(', ')', true)),
			leaf(r('}'), Unmatched('{', '}', true)),
			leaf(r('m'), Method('{', true)),
			leaf(r('M'), Method('}', true)),
			leaf(r(']'), Section('{', true)),
			leaf(r('['), Section('}', true)),
		),
		state.Bind(r('g'),
			leaf(r('g'), FirstLine()),
			leaf(r('_'), LastNonBlank()),
			leaf(r('e'), WordEndLeft(false)),
			leaf(r('E'), WordEndLeft(true)),
			leaf(r('*'), &WordSearch{Lenient: true}),
			leaf(r('#'), &WordSearch{Backward: true, Lenient: true}),
			leaf(r(';'), LastEdit()),
			leaf(r(','), LastEdit()),
		),
	)
}

// Commands converts the motion table into cursor-moving commands.
func Commands(motions state.State[vim.Motion]) state.State[vim.Command] {
	return state.Convert(motions, func(m vim.Motion) vim.Command {
		return NewCommand(m)
	})
}
