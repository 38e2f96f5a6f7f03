// Package textobj implements text objects: ranges over the buffer that
// operators act on. Every motion is also a text object spanning from the
// cursor to the motion's destination.
//
// The comment and indent objects are token heuristics, not parsers: any
// line starting with //, #, -- or ; counts as a comment and block comments
// are found by their delimiters alone.
package textobj
