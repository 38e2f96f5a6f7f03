// Package state implements the keystroke trie that modes use to recognise
// key sequences.
//
// A State maps strokes to transitions. A Transition carries an optional
// value, produced when a sequence is complete, and the state to continue
// from. Sequences of any depth are built by nesting states:
//
//	normal := state.New(
//	    state.Leaf(key.Rune('j'), down),
//	    state.Bind(key.Rune('g'),
//	        state.Leaf(key.Rune('g'), firstLine),
//	    ),
//	)
//
// States are immutable once built, with the exception of Dynamic, which
// accepts new bindings between dispatch cycles.
package state
