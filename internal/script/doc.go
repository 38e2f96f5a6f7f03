// Package script runs Lua configuration scripts against a session.
//
// Scripts see a global table named modal:
//
//	modal.set(name, value)          set an option; value may be omitted for booleans
//	modal.option(name)              read an option
//	modal.map(mode, lhs, rhs, opts) add a mapping; opts.noremap disables recursion
//	modal.unmap(mode, lhs)          remove a mapping
//	modal.surround(key, definition) define a surround delimiter
//	modal.command(name, fn)         add an ex command calling fn(args, bang)
//	modal.exec(line)                run an ex command line
//	modal.feed(keys)                queue keys in Vim notation
//	modal.register(name)            read a register
//	modal.setregister(name, text)   write a register
//	modal.text(), modal.cursor(), modal.line(), modal.mode()
//	modal.message(text)             show a message
//
// Only the base, table, string and math libraries are opened. Each run is
// bounded by a timeout.
package script
