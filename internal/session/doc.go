// Package session ties the command engine together for one buffer. A
// Session owns the registers, the modes, the user mappings, the macro
// recorder and the script runtime, and is the vim.Editor every command
// runs against.
//
// Hosts feed it one typed stroke at a time through Press. A stroke may set
// off more work before Press returns: mappings expand into virtual
// strokes, and commands such as @a and :normal feed keys that are handled
// after the stroke that queued them.
package session
