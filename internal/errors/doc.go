// Package apperrors defines the application error types (configuration,
// verification, mismatch, timeout) and maps them to process exit codes.
//
// All wrapping types implement Unwrap so that errors.Is and errors.As see
// through them.
package apperrors
