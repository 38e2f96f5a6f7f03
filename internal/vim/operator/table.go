package operator

import (
	"github.com/dshills/modal/internal/vim"
)

// Operator describes an operator key: the operation it applies and the
// key that, typed twice, applies it to whole lines.
type Operator struct {
	// Name identifies the operator in logs and the :map listing.
	Name string

	// Key is the key after the optional g prefix.
	Key rune

	// Prefixed operators are typed after g.
	Prefixed bool

	// Op is the operation applied to the text object.
	Op vim.TextOperation

	// ChangesText is false for operators that only read the buffer.
	ChangesText bool
}

// Standard operators.
var (
	OpDelete      = Operator{Name: "delete", Key: 'd', Op: Delete{}, ChangesText: true}
	OpChange      = Operator{Name: "change", Key: 'c', Op: Change{}, ChangesText: true}
	OpYank        = Operator{Name: "yank", Key: 'y', Op: Yank{}}
	OpIndentRight = Operator{Name: "indentRight", Key: '>', Op: Shift{}, ChangesText: true}
	OpIndentLeft  = Operator{Name: "indentLeft", Key: '<', Op: Shift{Left: true}, ChangesText: true}
	OpToggleCase  = Operator{Name: "toggleCase", Key: '~', Prefixed: true, Op: Case{Kind: ToggleCase}, ChangesText: true}
	OpToLower     = Operator{Name: "toLower", Key: 'u', Prefixed: true, Op: Case{Kind: LowerCase}, ChangesText: true}
	OpToUpper     = Operator{Name: "toUpper", Key: 'U', Prefixed: true, Op: Case{Kind: UpperCase}, ChangesText: true}
	OpRot13       = Operator{Name: "rot13", Key: '?', Prefixed: true, Op: Case{Kind: Rot13}, ChangesText: true}
	OpJoin        = Operator{Name: "join", Key: 'J', Op: Join{Spaces: true}, ChangesText: true}
)

// Operators returns the operators typed in normal mode, unprefixed first.
func Operators() []Operator {
	return []Operator{OpDelete, OpChange, OpYank, OpIndentRight, OpIndentLeft, OpToggleCase, OpToLower, OpToUpper, OpRot13}
}
