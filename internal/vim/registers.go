package vim

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/platform"
)

// Search is the last search request.
type Search struct {
	Pattern  string
	Backward bool

	// Hidden turns off match highlighting until the next search.
	Hidden bool
}

// RegisterManager is the session's editing memory: registers, the active
// register selection and the "last" values that drive repetition.
type RegisterManager struct {
	registers   map[rune]Register
	defaultName rune
	active      rune

	lastEdit         Command
	lastInsertion    Command
	lastInsertedText string
	lastSubstitution Command
	lastYank         Content
	lastDelete       Content
	lastFindChar     Motion
	lastNavigating   Motion
	search           *Search
	lastSelection    *platform.Selection
	cwd              string
	lastCommandLine  string
	lastMacro        rune
}

// NewRegisterManager creates the registers. The clipboard backs "+" and
// "*"; fileName backs "%". Either may be nil.
func NewRegisterManager(clipboard platform.Clipboard, fileName func() string) *RegisterManager {
	m := &RegisterManager{
		registers:   make(map[rune]Register),
		defaultName: RegisterUnnamed,
		active:      RegisterUnnamed,
	}
	if fileName == nil {
		fileName = func() string { return "" }
	}

	add := func(r Register) { m.registers[r.Name()] = r }
	add(&simpleRegister{name: RegisterUnnamed})
	add(&simpleRegister{name: RegisterSmallDelete})
	add(&simpleRegister{name: RegisterMacro})
	add(blackHoleRegister{})
	add(&clipboardRegister{name: RegisterClipboard, clipboard: clipboard})
	add(&clipboardRegister{name: RegisterSelection, clipboard: clipboard})
	for r := '0'; r <= '9'; r++ {
		add(&simpleRegister{name: r})
	}
	for r := 'a'; r <= 'z'; r++ {
		add(&simpleRegister{name: r})
	}
	add(&readOnlyRegister{name: RegisterSearch, read: func() Content {
		if m.search == nil {
			return Content{}
		}
		return TextOf(m.search.Pattern)
	}})
	add(&readOnlyRegister{name: RegisterCommandLine, read: func() Content { return TextOf(m.lastCommandLine) }})
	add(&readOnlyRegister{name: RegisterInsert, read: func() Content { return TextOf(m.lastInsertedText) }})
	add(&readOnlyRegister{name: RegisterFileName, read: func() Content { return TextOf(fileName()) }})
	return m
}

// Register returns a register by name. Uppercase letters return an alias
// that appends to the lowercase register.
func (m *RegisterManager) Register(name rune) (Register, error) {
	if r, ok := m.registers[name]; ok {
		return r, nil
	}
	if name >= 'A' && name <= 'Z' {
		lower := unicode.ToLower(name)
		return &appendRegister{target: m.registers[lower], name: name}, nil
	}
	return nil, Errorf("%w: %q", ErrInvalidRegister, name)
}

// Names returns the names of registers holding content, sorted.
func (m *RegisterManager) Names() []rune {
	var names []rune
	for name, r := range m.registers {
		if !r.Content().IsEmpty() {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// IsValidName reports whether name can be selected with a " prefix.
func IsValidName(name rune) bool {
	switch {
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z', name >= '0' && name <= '9':
		return true
	}
	return strings.ContainsRune(`"-_+*/:%.@`, name)
}

// Active returns the register the next command uses.
func (m *RegisterManager) Active() Register {
	r, err := m.Register(m.active)
	if err != nil {
		return m.registers[m.defaultName]
	}
	return r
}

// ActiveName returns the name of the active register.
func (m *RegisterManager) ActiveName() rune {
	return m.active
}

// SetActive selects the register for the next command.
func (m *RegisterManager) SetActive(name rune) error {
	if !IsValidName(name) {
		return Errorf("%w: %q", ErrInvalidRegister, name)
	}
	m.active = name
	return nil
}

// ActivateDefault returns the active selection to the default register.
func (m *RegisterManager) ActivateDefault() {
	m.active = m.defaultName
}

// IsDefaultActive reports whether no register was explicitly selected.
func (m *RegisterManager) IsDefaultActive() bool {
	return m.active == m.defaultName
}

// DefaultName returns the default register, normally '"'.
func (m *RegisterManager) DefaultName() rune {
	return m.defaultName
}

// SetDefault changes the default register, as the clipboard option does.
func (m *RegisterManager) SetDefault(name rune) {
	wasDefault := m.IsDefaultActive()
	m.defaultName = name
	if wasDefault {
		m.active = name
	}
}

// Default returns the default register.
func (m *RegisterManager) Default() Register {
	return m.registers[m.defaultName]
}

// Yanked stores yanked content in the active register. With the default
// register active, register 0 keeps a copy.
func (m *RegisterManager) Yanked(c Content) error {
	if m.active == RegisterBlackHole {
		return nil
	}
	m.lastYank = c
	if err := m.Active().SetContent(c); err != nil {
		return err
	}
	if m.IsDefaultActive() {
		_ = m.registers[RegisterYank].SetContent(c)
	}
	return m.mirrorUnnamed()
}

// Deleted stores deleted content in the active register. With the default
// register active, line deletes and multi-line deletes shift the numbered
// registers and small deletes go to "-".
func (m *RegisterManager) Deleted(c Content) error {
	if m.active == RegisterBlackHole {
		return nil
	}
	m.lastDelete = c
	if err := m.Active().SetContent(c); err != nil {
		return err
	}
	if m.IsDefaultActive() {
		if c.Type != Text || strings.Contains(c.Text, "\n") {
			m.shiftNumbered(c)
		} else {
			_ = m.registers[RegisterSmallDelete].SetContent(c)
		}
	}
	return m.mirrorUnnamed()
}

// mirrorUnnamed points the unnamed register at the last write.
func (m *RegisterManager) mirrorUnnamed() error {
	if m.active == RegisterUnnamed {
		return nil
	}
	return m.registers[RegisterUnnamed].SetContent(m.Active().Content())
}

func (m *RegisterManager) shiftNumbered(c Content) {
	for r := '9'; r > '1'; r-- {
		_ = m.registers[r].SetContent(m.registers[r-1].Content())
	}
	_ = m.registers['1'].SetContent(c)
}

// LastYank returns the content of the last yank.
func (m *RegisterManager) LastYank() Content { return m.lastYank }

// LastDelete returns the content of the last delete.
func (m *RegisterManager) LastDelete() Content { return m.lastDelete }

// LastEdit returns the command "." replays.
func (m *RegisterManager) LastEdit() Command { return m.lastEdit }

// SetLastEdit records the command "." replays.
func (m *RegisterManager) SetLastEdit(c Command) { m.lastEdit = c }

// LastInsertion returns the command that repeats the last inserted text.
func (m *RegisterManager) LastInsertion() Command { return m.lastInsertion }

// SetLastInsertion records the last insertion and its text, which the "."
// register reads.
func (m *RegisterManager) SetLastInsertion(c Command, text string) {
	m.lastInsertion = c
	m.lastInsertedText = text
}

// LastSubstitution returns the last :s command.
func (m *RegisterManager) LastSubstitution() Command { return m.lastSubstitution }

// SetLastSubstitution records the last :s command for "&".
func (m *RegisterManager) SetLastSubstitution(c Command) { m.lastSubstitution = c }

// LastFindCharMotion returns the last f, F, t or T motion.
func (m *RegisterManager) LastFindCharMotion() Motion { return m.lastFindChar }

// SetLastFindCharMotion records the last f, F, t or T motion for ; and ,.
func (m *RegisterManager) SetLastFindCharMotion(mo Motion) { m.lastFindChar = mo }

// LastNavigatingMotion returns the last motion that moved the cursor on its
// own, repeats of f and t included. Operator targets are not recorded.
func (m *RegisterManager) LastNavigatingMotion() Motion { return m.lastNavigating }

// SetLastNavigatingMotion records a motion that moved the cursor.
func (m *RegisterManager) SetLastNavigatingMotion(mo Motion) { m.lastNavigating = mo }

// Search returns the last search, or nil.
func (m *RegisterManager) Search() *Search { return m.search }

// SetSearch records the last search.
func (m *RegisterManager) SetSearch(s *Search) { m.search = s }

// LastActiveSelection returns the last visual selection, for "gv".
func (m *RegisterManager) LastActiveSelection() (platform.Selection, bool) {
	if m.lastSelection == nil {
		return platform.Selection{}, false
	}
	return *m.lastSelection, true
}

// SetLastActiveSelection records a visual selection.
func (m *RegisterManager) SetLastActiveSelection(sel platform.Selection) {
	m.lastSelection = &sel
}

// CurrentWorkingDirectory returns the session's working directory.
func (m *RegisterManager) CurrentWorkingDirectory() string { return m.cwd }

// SetCurrentWorkingDirectory sets the session's working directory.
func (m *RegisterManager) SetCurrentWorkingDirectory(dir string) { m.cwd = dir }

// LastCommandLine returns the last command line, read by the ":" register.
func (m *RegisterManager) LastCommandLine() string { return m.lastCommandLine }

// SetLastCommandLine records the last command line.
func (m *RegisterManager) SetLastCommandLine(line string) { m.lastCommandLine = line }

// LastMacro returns the register of the last executed macro, or 0.
func (m *RegisterManager) LastMacro() rune { return m.lastMacro }

// SetLastMacro records the register of the last executed macro for "@@".
func (m *RegisterManager) SetLastMacro(name rune) { m.lastMacro = name }
