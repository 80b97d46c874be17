package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled reports that the user dismissed a confirmation. It never
	// produces a notice.
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoActiveDocument is returned by Registry.Active on an empty registry.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrRegistryClosed is returned by every registry operation after Destroy.
	ErrRegistryClosed = errors.New("registry closed")
)

// IOError reports a failed read or write against the storage service. The
// document state is left untouched when one is returned.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// InvariantViolation reports a programming defect, such as addressing a
// document that is not in the registry.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Detail)
}

// IsInvariantViolation reports whether err wraps an *InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
