package terminal

import (
	"fmt"
	"regexp"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/modal/internal/platform"
	"github.com/dshills/modal/internal/vim"
	"github.com/dshills/modal/internal/vim/mode"
)

var (
	styleText      = tcell.StyleDefault
	styleFiller    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleMatch     = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleMode      = tcell.StyleDefault.Bold(true)
)

// Draw renders the buffer, the status line and the cursor, and shows the
// result.
func (h *Host) Draw() {
	s := h.screen
	s.Clear()
	width, height := s.Size()
	rows := height - 1
	if rows < 1 || width < 1 {
		s.Show()
		return
	}

	c := h.platform.Content()
	ts := h.platform.Configuration().TabStop()
	pos := h.platform.Cursor().Position()
	cursorLine := c.LineInformationOfOffset(pos)
	h.scroll(cursorLine.Number, rows)

	view := lineView{
		content: c,
		tabstop: ts,
		pattern: h.searchPattern(),
	}
	if sel, ok := h.platform.Selection().Selection(); ok {
		view.selection = &sel
	}
	for row := 0; row < rows; row++ {
		n := h.top + row
		if n >= c.LineCount() {
			s.SetContent(0, row, '~', nil, styleFiller)
			continue
		}
		view.draw(s, row, width, c.LineInformation(n))
	}

	m := h.session.Modes().Current()
	prompt := m != nil && isPrompt(m.Name())
	h.drawStatus(height-1, width, prompt, cursorLine, pos)

	if prompt {
		text := h.platform.Messages().CommandLine()
		s.ShowCursor(min(platform.DisplayWidth(text, ts), width-1), height-1)
	} else {
		col := platform.VisualColumn(vim.LineText(c, cursorLine), pos-cursorLine.Begin, ts)
		s.ShowCursor(min(col, width-1), cursorLine.Number-h.top)
	}
	if m != nil {
		s.SetCursorStyle(cursorStyle(m.CursorStyle()))
	}
	s.Show()
}

// scroll keeps line within the rows on screen.
func (h *Host) scroll(line, rows int) {
	if line < h.top {
		h.top = line
	}
	if line >= h.top+rows {
		h.top = line - rows + 1
	}
}

func (h *Host) searchPattern() *regexp.Regexp {
	search := h.session.Registers().Search()
	if search == nil || search.Hidden || search.Pattern == "" {
		return nil
	}
	re, err := vim.CompilePattern(search.Pattern, h.platform.Configuration())
	if err != nil {
		return nil
	}
	return re
}

// drawStatus writes the message or prompt on the left, and the pending
// keys and cursor position on the right.
func (h *Host) drawStatus(y, width int, prompt bool, line platform.LineInfo, pos int) {
	ui := h.platform.Messages()
	left, style := "", styleText
	switch {
	case prompt:
		left = ui.CommandLine()
	case ui.ErrorMessage() != "":
		left, style = ui.ErrorMessage(), styleError
	case ui.InfoMessage() != "":
		left = ui.InfoMessage()
	default:
		if result, ok := ui.LastCommandResult(); ok {
			left = result
		} else if name := ui.ModeName(); name != "" && name != "NORMAL" {
			left, style = "-- "+name+" --", styleMode
		}
	}
	putString(h.screen, 0, y, width, left, style)
	if prompt {
		return
	}

	c := h.platform.Content()
	col := platform.VisualColumn(vim.LineText(c, line), pos-line.Begin, h.platform.Configuration().TabStop())
	right := fmt.Sprintf("%-10s %d,%d", ui.CommandLine(), line.Number+1, col+1)
	x := width - uniseg.StringWidth(right)
	if x > uniseg.StringWidth(left) {
		putString(h.screen, x, y, width, right, styleText)
	}
}

func isPrompt(name string) bool {
	return name == vim.ModeCommandLine || name == vim.ModeSearch || name == vim.ModeDelimiterPrompt
}

func cursorStyle(style mode.CursorStyle) tcell.CursorStyle {
	switch style {
	case mode.CursorBar:
		return tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	}
	return tcell.CursorStyleSteadyBlock
}

// putString writes text from column x, cutting it at width.
func putString(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	state := -1
	for len(text) > 0 && x < width {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += max(w, 1)
	}
}

// lineView draws buffer lines with the selection and search matches.
type lineView struct {
	content   platform.TextContent
	tabstop   int
	pattern   *regexp.Regexp
	selection *platform.Selection
}

func (v lineView) draw(s tcell.Screen, y, width int, line platform.LineInfo) {
	text := vim.LineText(v.content, line)
	var matches [][]int
	if v.pattern != nil {
		matches = v.pattern.FindAllStringIndex(text, -1)
	}
	sel := v.selectedColumns(line)

	x, pos, state := 0, 0, -1
	rest := text
	for len(rest) > 0 && x < width {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		style := styleText
		if inMatch(matches, pos) {
			style = styleMatch
		}
		if sel(line.Begin+pos, x) {
			style = styleSelection
		}
		if cluster == "\t" {
			for n := v.tabstop - x%v.tabstop; n > 0 && x < width; n-- {
				s.SetContent(x, y, ' ', nil, style)
				x++
			}
		} else {
			runes := []rune(cluster)
			s.SetContent(x, y, runes[0], runes[1:], style)
			x += max(w, 1)
		}
		pos += len(cluster)
	}
}

func inMatch(matches [][]int, pos int) bool {
	for _, m := range matches {
		if pos >= m[0] && pos < m[1] {
			return true
		}
	}
	return false
}

// selectedColumns returns a test for whether the character at an offset,
// drawn at a column, is selected.
func (v lineView) selectedColumns(line platform.LineInfo) func(offset, col int) bool {
	sel := v.selection
	if sel == nil {
		return func(int, int) bool { return false }
	}
	c := v.content
	start, end := min(sel.Anchor, sel.Head), max(sel.Anchor, sel.Head)
	first := c.LineInformationOfOffset(start).Number
	last := c.LineInformationOfOffset(end).Number
	if line.Number < first || line.Number > last {
		return func(int, int) bool { return false }
	}
	switch sel.Kind {
	case platform.SelectLines:
		return func(int, int) bool { return true }
	case platform.SelectBlock:
		a := v.column(sel.Anchor)
		b := v.column(sel.Head)
		left, right := min(a, b), max(a, b)
		return func(_, col int) bool { return col >= left && col <= right }
	}
	return func(offset, _ int) bool { return offset >= start && offset <= end }
}

func (v lineView) column(offset int) int {
	line := v.content.LineInformationOfOffset(offset)
	return platform.VisualColumn(vim.LineText(v.content, line), offset-line.Begin, v.tabstop)
}
