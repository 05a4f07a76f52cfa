package mpint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is matched by every *FormatError.
	ErrInvalidFormat = errors.New("mpint: invalid format")
	// ErrPrecondition is matched by every *PreconditionError.
	ErrPrecondition = errors.New("mpint: precondition violated")
	// ErrUnsupportedOperation is matched by every *OperationError.
	ErrUnsupportedOperation = errors.New("mpint: unsupported operation")
)

// FormatError is returned when a textual value cannot be parsed.
type FormatError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("mpint: cannot parse %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidFormat) succeed.
func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

// PreconditionError is the panic value raised when an operation is called
// on an operand it is not defined for, such as the trailing-zero count of
// zero. It signals a caller bug and is not meant to be recovered from.
type PreconditionError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("mpint: %s: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrPrecondition) succeed.
func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// OperationError is returned for operand combinations an operation does not
// handle.
type OperationError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("mpint: %s: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrUnsupportedOperation) succeed.
func (e *OperationError) Is(target error) bool { return target == ErrUnsupportedOperation }
