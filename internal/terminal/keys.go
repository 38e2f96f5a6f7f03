package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modal/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// controlRunes are the control keys tcell reports outside the letters.
var controlRunes = map[tcell.Key]rune{
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// Stroke converts a tcell key event. Tab, Enter, Backspace and Escape win
// over the control letters that share their codes (<C-i>, <C-m>, <C-h>,
// <C-[>), since that is how a terminal sends them.
func Stroke(ev *tcell.EventKey) (key.Stroke, bool) {
	mods := modifiers(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		r := ev.Rune()
		if mods.Has(key.ModCtrl) {
			r = unicode.ToLower(r)
		}
		return key.Stroke{Key: key.KeyRune, Rune: r, Modifiers: mods}, true
	}
	if special, ok := specialKeys[k]; ok {
		if k == tcell.KeyBacktab {
			mods = mods.With(key.ModShift)
		}
		// The control bit tcell adds to the keys it decodes from control
		// codes is not part of the key.
		if k == tcell.KeyEnter || k == tcell.KeyTab || k == tcell.KeyBackspace || k == tcell.KeyEscape {
			mods = mods.Without(key.ModCtrl)
		}
		return key.Stroke{Key: special, Modifiers: mods}, true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.Stroke{Key: key.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Modifiers: mods.With(key.ModCtrl)}, true
	}
	if r, ok := controlRunes[k]; ok {
		return key.Stroke{Key: key.KeyRune, Rune: r, Modifiers: mods.With(key.ModCtrl)}, true
	}
	return key.Stroke{}, false
}

func modifiers(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result = result.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		result = result.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		result = result.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		result = result.With(key.ModMeta)
	}
	return result
}
