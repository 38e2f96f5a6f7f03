package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/modal/internal/platform"
)

// Kind is the value type of an option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindList
)

type definition struct {
	name     string
	short    string
	kind     Kind
	def      string
	validate func(string) (string, error)
}

var definitions = []definition{
	{name: "newline", short: "nl", kind: KindString, def: "\n", validate: normalizeNewline},
	{name: "matchpairs", short: "mps", kind: KindList, def: "(:),{:},[:]", validate: validatePairs},
	{name: "shiftwidth", short: "sw", kind: KindInt, def: "8"},
	{name: "tabstop", short: "ts", kind: KindInt, def: "8", validate: positive},
	{name: "expandtab", short: "et", kind: KindBool, def: "false"},
	{name: "autoindent", short: "ai", kind: KindBool, def: "false"},
	{name: "ignorecase", short: "ic", kind: KindBool, def: "false"},
	{name: "smartcase", short: "scs", kind: KindBool, def: "false"},
	{name: "wrapscan", short: "ws", kind: KindBool, def: "true"},
	{name: "clipboard", short: "cb", kind: KindList, def: "", validate: validateClipboard},
}

var byName = func() map[string]*definition {
	m := make(map[string]*definition, len(definitions)*2)
	for i := range definitions {
		d := &definitions[i]
		m[d.name] = d
		m[d.short] = d
	}
	return m
}()

// Options is the option store. The zero value is not usable; call New.
type Options struct {
	mu       sync.RWMutex
	values   map[string]string
	notifier *notifier
}

var _ platform.Configuration = (*Options)(nil)

// New creates options holding the defaults.
func New() *Options {
	o := &Options{
		values:   make(map[string]string, len(definitions)),
		notifier: newNotifier(),
	}
	for _, d := range definitions {
		o.values[d.name] = d.def
	}
	return o
}

// Names returns the full names of all options, sorted.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for _, d := range definitions {
		names = append(names, d.name)
	}
	sort.Strings(names)
	return names
}

// KindOf returns the kind of an option.
func KindOf(name string) (Kind, bool) {
	d, ok := byName[name]
	if !ok {
		return 0, false
	}
	return d.kind, true
}

// Get returns the raw value of an option.
func (o *Options) Get(name string) (string, bool) {
	d, ok := byName[name]
	if !ok {
		return "", false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.values[d.name], true
}

// Set assigns an option, normalising the value for its kind. Subscribers are
// notified when the stored value changes.
func (o *Options) Set(name, value string) error {
	d, ok := byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	normalized, err := normalize(d, value)
	if err != nil {
		return err
	}

	o.mu.Lock()
	old := o.values[d.name]
	o.values[d.name] = normalized
	o.mu.Unlock()

	if old != normalized {
		o.notifier.notify(platform.ConfigChange{Name: d.name, Old: old, New: normalized})
	}
	return nil
}

// Subscribe registers fn for every option change.
func (o *Options) Subscribe(fn func(platform.ConfigChange)) platform.Subscription {
	return o.notifier.subscribe(fn)
}

func (o *Options) str(name string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.values[name]
}

func (o *Options) integer(name string) int {
	n, _ := strconv.Atoi(o.str(name))
	return n
}

func (o *Options) boolean(name string) bool {
	return o.str(name) == "true"
}

func (o *Options) list(name string) []string {
	v := o.str(name)
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// NewLine returns the line terminator used for inserted text.
func (o *Options) NewLine() string { return o.str("newline") }

// MatchPairs returns the "open:close" pairs used by % and delimited objects.
func (o *Options) MatchPairs() []string { return o.list("matchpairs") }

// ShiftWidth returns the indent step for > and <. Zero means tabstop.
func (o *Options) ShiftWidth() int {
	if sw := o.integer("shiftwidth"); sw > 0 {
		return sw
	}
	return o.TabStop()
}

// TabStop returns the display width of a tab.
func (o *Options) TabStop() int { return o.integer("tabstop") }

// ExpandTab reports whether indentation uses spaces.
func (o *Options) ExpandTab() bool { return o.boolean("expandtab") }

// AutoIndent reports whether new lines copy the current indent.
func (o *Options) AutoIndent() bool { return o.boolean("autoindent") }

// IgnoreCase reports whether searches ignore case.
func (o *Options) IgnoreCase() bool { return o.boolean("ignorecase") }

// SmartCase reports whether an uppercase pattern character overrides
// ignorecase.
func (o *Options) SmartCase() bool { return o.boolean("smartcase") }

// WrapScan reports whether searches wrap around the buffer ends.
func (o *Options) WrapScan() bool { return o.boolean("wrapscan") }

// Clipboard returns the clipboard option items ("unnamed", "unnamedplus").
func (o *Options) Clipboard() []string { return o.list("clipboard") }

func normalize(d *definition, value string) (string, error) {
	switch d.kind {
	case KindBool:
		b, err := parseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %q", ErrInvalidValue, d.name, value)
		}
		value = strconv.FormatBool(b)
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w for %s: %q", ErrInvalidValue, d.name, value)
		}
		value = strconv.Itoa(n)
	case KindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		value = strings.Join(items, ",")
	}
	if d.validate != nil {
		v, err := d.validate(value)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %v", ErrInvalidValue, d.name, err)
		}
		value = v
	}
	return value, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

func normalizeNewline(v string) (string, error) {
	switch strings.ToLower(v) {
	case "\n", `\n`, "unix", "lf":
		return "\n", nil
	case "\r\n", `\r\n`, "dos", "crlf":
		return "\r\n", nil
	case "\r", `\r`, "mac", "cr":
		return "\r", nil
	}
	return "", fmt.Errorf("unknown line ending %q", v)
}

func validatePairs(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	for _, pair := range strings.Split(v, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 || len([]rune(parts[0])) != 1 || len([]rune(parts[1])) != 1 || parts[0] == parts[1] {
			return "", fmt.Errorf("pair %q is not of the form a:b", pair)
		}
	}
	return v, nil
}

func validateClipboard(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	for _, item := range strings.Split(v, ",") {
		if item != "unnamed" && item != "unnamedplus" {
			return "", fmt.Errorf("unsupported clipboard setting %q", item)
		}
	}
	return v, nil
}

func positive(v string) (string, error) {
	if v == "0" {
		return "", fmt.Errorf("must be positive")
	}
	return v, nil
}
