package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Apply interprets one :set argument. It understands
//
//	name        enable a boolean, or show any other option
//	noname      disable a boolean
//	invname     toggle a boolean (also name!)
//	name?       show the value
//	name=value  assign (name:value is accepted too)
//	name+=value append to a list or string, add to a number
//	name-=value remove from a list, subtract from a number
//	name^=value prepend to a list or string, multiply a number
//
// The returned string is non-empty when the argument asks to show a value.
func (o *Options) Apply(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", nil
	}

	if i := strings.IndexAny(arg, "=:"); i > 0 {
		name, value := arg[:i], arg[i+1:]
		op := byte(0)
		if last := name[len(name)-1]; last == '+' || last == '-' || last == '^' {
			op = last
			name = name[:len(name)-1]
		}
		return "", o.assign(name, op, value)
	}

	if name, ok := strings.CutSuffix(arg, "?"); ok {
		return o.Show(name)
	}
	if name, ok := strings.CutSuffix(arg, "!"); ok {
		return "", o.toggle(name)
	}
	if kind, ok := KindOf(arg); ok {
		if kind == KindBool {
			return "", o.Set(arg, "true")
		}
		return o.Show(arg)
	}
	if name, ok := strings.CutPrefix(arg, "no"); ok {
		if kind, known := KindOf(name); known && kind == KindBool {
			return "", o.Set(name, "false")
		}
	}
	if name, ok := strings.CutPrefix(arg, "inv"); ok {
		return "", o.toggle(name)
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownOption, arg)
}

// Show formats an option the way :set displays it.
func (o *Options) Show(name string) (string, error) {
	d, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	v, _ := o.Get(name)
	if d.kind == KindBool {
		if v == "true" {
			return d.name, nil
		}
		return "no" + d.name, nil
	}
	q := strconv.Quote(v)
	return d.name + "=" + q[1:len(q)-1], nil
}

func (o *Options) toggle(name string) error {
	kind, ok := KindOf(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if kind != KindBool {
		return fmt.Errorf("%w for %s: not a boolean option", ErrInvalidValue, name)
	}
	v, _ := o.Get(name)
	return o.Set(name, strconv.FormatBool(v != "true"))
}

func (o *Options) assign(name string, op byte, value string) error {
	d, ok := byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if op == 0 {
		return o.Set(name, value)
	}
	cur, _ := o.Get(name)

	switch d.kind {
	case KindInt:
		a, _ := strconv.Atoi(cur)
		b, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w for %s: %q", ErrInvalidValue, d.name, value)
		}
		switch op {
		case '+':
			a += b
		case '-':
			a -= b
		case '^':
			a *= b
		}
		return o.Set(name, strconv.Itoa(a))
	case KindList:
		items := splitList(cur)
		switch op {
		case '+':
			if !slices.Contains(items, value) {
				items = append(items, value)
			}
		case '^':
			if !slices.Contains(items, value) {
				items = append([]string{value}, items...)
			}
		case '-':
			out := items[:0]
			for _, item := range items {
				if item != value {
					out = append(out, item)
				}
			}
			items = out
		}
		return o.Set(name, strings.Join(items, ","))
	case KindString:
		switch op {
		case '+':
			return o.Set(name, cur+value)
		case '^':
			return o.Set(name, value+cur)
		case '-':
			return o.Set(name, strings.Replace(cur, value, "", 1))
		}
	}
	return fmt.Errorf("%w for %s: operator %c not supported", ErrInvalidValue, d.name, op)
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
