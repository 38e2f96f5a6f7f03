package keymap

import (
	"fmt"
	"strings"
)

// Keymap names.
const (
	Normal          = "nmap"
	OperatorPending = "omap"
	Visual          = "vmap"
	Insert          = "imap"
)

// ForMode returns the keymaps a mapping declared for mode applies to. An
// empty mode stands for normal, visual and operator-pending, as :map does.
func ForMode(mode string) ([]string, error) {
	switch strings.ToLower(mode) {
	case "", "map", "noremap":
		return []string{Normal, Visual, OperatorPending}, nil
	case "n", "normal", Normal, "nnoremap":
		return []string{Normal}, nil
	case "v", "x", "visual", Visual, "vnoremap", "xmap", "xnoremap":
		return []string{Visual}, nil
	case "o", "operator", "operator-pending", OperatorPending, "onoremap":
		return []string{OperatorPending}, nil
	case "i", "insert", Insert, "inoremap":
		return []string{Insert}, nil
	}
	return nil, fmt.Errorf("unknown keymap mode %q", mode)
}
