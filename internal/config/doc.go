// Package config holds the editor options the command engine consults and
// the loaders that populate them.
//
// Options are Vim-style named values ("shiftwidth", "matchpairs", ...). They
// can be changed with :set syntax, from a TOML or YAML file, or from a Lua
// script, and every change is published to subscribers:
//
//	opts := config.New()
//	sub := opts.Subscribe(func(c platform.ConfigChange) { ... })
//	defer sub.Unsubscribe()
//	_ = opts.Apply("shiftwidth=4")
//
// A configuration file may also carry key mappings and surround delimiter
// definitions; File.Apply hands those to the given sinks.
package config
