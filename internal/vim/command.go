package vim

// Command is anything the dispatcher can execute.
type Command interface {
	Execute(ed Editor) error
}

// Counted is implemented by operations that accept a repeat count. The
// count given to WithCount multiplies any count already bound, so that
// "2d3w" deletes six words.
type Counted[T any] interface {
	WithCount(n int) T
}

// Repeatable is implemented by commands that "." can replay. Repetition
// returns the command to store as the last edit: the command itself, a
// variant without interactive parts, or nil when the command must not
// replace the last edit.
type Repeatable interface {
	Repetition() Command
}

// NoCount is the count of an operation typed without a count prefix.
const NoCount = 0

// Count returns n, or 1 when no count was given.
func Count(n int) int {
	if n <= NoCount {
		return 1
	}
	return n
}

// MultiplyCount combines an existing count with a new one.
func MultiplyCount(existing, n int) int {
	switch {
	case n <= NoCount:
		return existing
	case existing <= NoCount:
		return n
	}
	return existing * n
}

// WithCount applies a count to c when it is Counted and returns it
// unchanged otherwise.
func WithCount(c Command, n int) Command {
	if n <= NoCount {
		return c
	}
	if counted, ok := c.(Counted[Command]); ok {
		return counted.WithCount(n)
	}
	return c
}

// RepetitionOf returns the repetition of c, or nil when c is not
// repeatable.
func RepetitionOf(c Command) Command {
	if r, ok := c.(Repeatable); ok {
		return r.Repetition()
	}
	return nil
}

// CommandFunc adapts a function to Command. It is neither counted nor
// repeatable.
type CommandFunc func(ed Editor) error

// Execute calls f.
func (f CommandFunc) Execute(ed Editor) error {
	return f(ed)
}

// CountedFunc is a command built from a function taking the count.
type CountedFunc struct {
	Fn         func(ed Editor, count int) error
	count      int
	repeatable bool
}

// NewCountedFunc wraps fn. Repeatable commands replay themselves with "."
func NewCountedFunc(fn func(ed Editor, count int) error, repeatable bool) *CountedFunc {
	return &CountedFunc{Fn: fn, repeatable: repeatable}
}

// Execute calls the function with the bound count.
func (c *CountedFunc) Execute(ed Editor) error {
	return c.Fn(ed, c.count)
}

// WithCount returns a copy bound to count n.
func (c *CountedFunc) WithCount(n int) Command {
	cp := *c
	cp.count = MultiplyCount(c.count, n)
	return &cp
}

// Repetition returns the command itself when repeatable.
func (c *CountedFunc) Repetition() Command {
	if !c.repeatable {
		return nil
	}
	return c
}

// SequenceCommand runs commands in order and stops at the first error.
type SequenceCommand struct {
	Commands []Command
}

// Sequence builds a SequenceCommand, skipping nil entries.
func Sequence(cmds ...Command) *SequenceCommand {
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			out = append(out, c)
		}
	}
	return &SequenceCommand{Commands: out}
}

// Execute runs each command.
func (s *SequenceCommand) Execute(ed Editor) error {
	for _, c := range s.Commands {
		if err := c.Execute(ed); err != nil {
			return err
		}
	}
	return nil
}

// WithCount gives the count to the first counted element, so that "3."
// repeats a register-prefixed edit with count 3.
func (s *SequenceCommand) WithCount(n int) Command {
	out := &SequenceCommand{Commands: append([]Command(nil), s.Commands...)}
	for i, c := range out.Commands {
		if counted, ok := c.(Counted[Command]); ok {
			out.Commands[i] = counted.WithCount(n)
			break
		}
	}
	return out
}

// Repetition returns the sequence itself.
func (s *SequenceCommand) Repetition() Command {
	return s
}

// SwitchRegister activates a register for the next command. It is not
// repeatable on its own; the dispatcher prefixes it to a repetition when
// a non-default register was active.
type SwitchRegister struct {
	Name rune
}

// Execute activates the register.
func (s SwitchRegister) Execute(ed Editor) error {
	return ed.Registers().SetActive(s.Name)
}
