package platform

import (
	"github.com/rivo/uniseg"
)

// VisualColumn returns the display column at which byte index idx of line
// starts. Tabs advance to the next multiple of tabstop and wide graphemes
// count for their terminal width.
func VisualColumn(line string, idx, tabstop int) int {
	if tabstop <= 0 {
		tabstop = 8
	}
	col := 0
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 && pos < idx {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			width = tabstop - col%tabstop
		}
		if width == 0 {
			width = 1
		}
		col += width
		pos += len(cluster)
	}
	return col
}

// ByteIndexForColumn returns the byte index of the grapheme covering display
// column col, or len(line) when the line is shorter. The second result is
// false in that case.
func ByteIndexForColumn(line string, col, tabstop int) (int, bool) {
	if tabstop <= 0 {
		tabstop = 8
	}
	cur := 0
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			width = tabstop - cur%tabstop
		}
		if width == 0 {
			width = 1
		}
		if col < cur+width {
			return pos, true
		}
		cur += width
		pos += len(cluster)
	}
	return len(line), false
}

// DisplayWidth returns the display width of s when it starts at column 0.
func DisplayWidth(s string, tabstop int) int {
	return VisualColumn(s, len(s), tabstop)
}
