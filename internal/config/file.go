package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Mapping is a key mapping declared in a configuration file.
type Mapping struct {
	// Mode is "normal", "visual", "operator" or "insert" (or n, v, o, i).
	Mode    string `toml:"mode" yaml:"mode"`
	LHS     string `toml:"lhs" yaml:"lhs"`
	RHS     string `toml:"rhs" yaml:"rhs"`
	NoRemap bool   `toml:"noremap" yaml:"noremap"`
}

// File is the decoded content of a configuration file.
//
//	[options]
//	shiftwidth = 4
//	matchpairs = ["(:)", "{:}", "[:]", "<:>"]
//
//	[[map]]
//	mode = "normal"
//	lhs = "Y"
//	rhs = "y$"
//	noremap = true
//
//	[surround]
//	q = "“\r”"
type File struct {
	Path     string            `toml:"-" yaml:"-"`
	Options  map[string]any    `toml:"options" yaml:"options"`
	Mappings []Mapping         `toml:"map" yaml:"map"`
	Surround map[string]string `toml:"surround" yaml:"surround"`
	Scripts  []string          `toml:"scripts" yaml:"scripts"`
}

// Sinks receive the parts of a File that are not options.
type Sinks struct {
	Map      func(m Mapping) error
	Surround func(key, definition string) error
	Source   func(path string) error
}

// Load reads a configuration file, choosing the decoder by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes configuration data. The path selects the format and is used
// in error messages.
func Parse(path string, data []byte) (*File, error) {
	f := &File{Path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, f); err != nil {
			return nil, tomlParseError(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, yamlParseError(path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return f, nil
}

// Apply sets the file's options and hands mappings, surround definitions and
// scripts to the sinks. It keeps going after a failure and returns all
// errors joined.
func (f *File) Apply(opts *Options, sinks Sinks) error {
	var errs []error

	names := make([]string, 0, len(f.Options))
	for name := range f.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := optionString(f.Options[name])
		if err == nil {
			err = opts.Set(name, value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: option %s: %w", f.Path, name, err))
		}
	}

	if sinks.Map != nil {
		for _, m := range f.Mappings {
			if err := sinks.Map(m); err != nil {
				errs = append(errs, fmt.Errorf("%s: map %s: %w", f.Path, m.LHS, err))
			}
		}
	}

	if sinks.Surround != nil {
		keys := make([]string, 0, len(f.Surround))
		for k := range f.Surround {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := sinks.Surround(k, f.Surround[k]); err != nil {
				errs = append(errs, fmt.Errorf("%s: surround %s: %w", f.Path, k, err))
			}
		}
	}

	if sinks.Source != nil {
		for _, script := range f.Scripts {
			if !filepath.IsAbs(script) {
				script = filepath.Join(filepath.Dir(f.Path), script)
			}
			if err := sinks.Source(script); err != nil {
				errs = append(errs, fmt.Errorf("%s: script %s: %w", f.Path, script, err))
			}
		}
	}

	return errors.Join(errs...)
}

// optionString converts a decoded TOML or YAML value to option text.
func optionString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		if val != float64(int64(val)) {
			return "", fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, val)
		}
		return strconv.FormatInt(int64(val), 10), nil
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, err := optionString(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ","), nil
	}
	return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
}

func tomlParseError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func yamlParseError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
		pe.Line = line
	}
	return pe
}
