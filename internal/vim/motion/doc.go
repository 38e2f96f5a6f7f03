// Package motion implements cursor motions.
//
// A motion is a pure function of the buffer, the cursor and a count: it
// computes a destination and never edits the buffer or moves the cursor.
// Moving is the job of Command; operators consume motions through the
// textobj package.
//
// Bindings assembles the motion key table shared by normal, visual and
// operator-pending states.
package motion
