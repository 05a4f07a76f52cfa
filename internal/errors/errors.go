package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a disagreement with an oracle or between backends.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// VerificationError wraps a failure raised while running a verification
// check, keeping the check and backend it came from.
type VerificationError struct {
	// Check is the name of the check, e.g. "oracle-kronecker".
	Check string
	// Backend is the kernel backend under test.
	Backend string
	// Cause is the underlying error.
	Cause error
}

// Error returns the check, backend and cause.
func (e VerificationError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Check, e.Backend, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e VerificationError) Unwrap() error { return e.Cause }

// MismatchError reports a result that disagrees with the expected value.
type MismatchError struct {
	// Input describes the operands.
	Input string
	// Got is the value computed by the code under test.
	Got string
	// Want is the reference value.
	Want string
}

// Error returns a formatted description of the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("mismatch on %s: got %s, want %s", e.Input, e.Got, e.Want)
}

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the exit code the process should return.
func ExitCodeFor(err error) int {
	var (
		cfgErr      ConfigError
		valErr      ValidationError
		mismatchErr MismatchError
		timeoutErr  TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}
