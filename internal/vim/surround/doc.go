// Package surround adds, changes and deletes delimiters around text: ds,
// cs and ys in normal mode, S and gS in visual mode, and the :surround
// command that defines new delimiters.
//
// A delimiter is looked up by a single character. Opening brackets add
// padding spaces and closing brackets do not; t and < ask for an HTML tag;
// any other punctuation character surrounds with itself.
package surround
