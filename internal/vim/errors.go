package vim

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by execution errors.
var (
	ErrInvalidRegister  = errors.New("invalid register")
	ErrReadOnlyRegister = errors.New("register is read-only")
	ErrEmptyRegister    = errors.New("nothing in register")
	ErrNoMark           = errors.New("mark not set")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrNoPrevious       = errors.New("no previous command")
	ErrNoMatch          = errors.New("pattern not found")
	ErrCharNotFound     = errors.New("character not found")
	ErrNoSelection      = errors.New("no selection")
	ErrRecursiveMapping = errors.New("recursive mapping")
	ErrUnknownMode      = errors.New("unknown mode")
)

// ExecutionError is a recoverable failure of a single command. The
// dispatcher shows its message and resets the mode to its initial state.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Errorf creates an ExecutionError. A %w verb in the format is unwrappable.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &ExecutionError{Message: err.Error(), Err: errors.Unwrap(err)}
}

// ConfigError reports malformed extensibility input such as a delimiter
// definition without its separator. Registries reject the input unchanged.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ConfigErrorf creates a ConfigError.
func ConfigErrorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &ConfigError{Message: err.Error(), Err: errors.Unwrap(err)}
}

// Message returns the single-line text shown to the user for err.
func Message(err error) string {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Message
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
