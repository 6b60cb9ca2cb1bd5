package trim

import (
	"errors"
	"fmt"
)

// Error kinds for trim operations. Apart from context cancellation, every
// error returned by Run and Transform matches exactly one of these.
var (
	// ErrSourceNotFound indicates the source file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceUnreadable indicates the source could not be opened or a read failed.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrDestinationUnwritable indicates the destination could not be created or a write failed.
	ErrDestinationUnwritable = errors.New("destination unwritable")

	// ErrInvalidConfiguration indicates the configuration was rejected before any I/O.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Error wraps a trim failure with the operation and path involved.
type Error struct {
	Op   string // Operation that failed ("open", "read", "write", "commit", "validate", "load")
	Path string // File involved, if any
	Kind error  // One of the Err* kinds above
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying error to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func invalidConfig(format string, args ...any) *Error {
	return newError("validate", "", ErrInvalidConfiguration, fmt.Errorf(format, args...))
}

// Kind returns the error kind of err, or nil if err is not a trim error.
func Kind(err error) error {
	for _, kind := range []error{
		ErrInvalidConfiguration,
		ErrSourceNotFound,
		ErrSourceUnreadable,
		ErrDestinationUnwritable,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
