// Package macro records typed keys into registers and plays them back.
//
// q{reg} starts recording into a register and a second q stops it. The
// keys typed in between are stored as key notation, so a macro can be
// inspected with :registers or written into a register by hand. An
// uppercase register name appends to the macro already there.
//
// @{reg} feeds the stored keys back through the session as virtual
// strokes, count times. @@ repeats the last macro and @: the last command
// line.
package macro
