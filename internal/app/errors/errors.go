package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrInvalidConfig    = New("invalid configuration")
	ErrInputDirNotFound = New("input directory not found")

	// Backend errors
	ErrBackendNotFound = New("backend not found")
	ErrBackendLoad     = New("failed to load transcription backend")
	ErrMissingAPIKey   = New("API key is required")

	// File errors
	ErrFileWriteFailed = New("file write failed")
)

// Exit statuses reported by the CLI.
const (
	ExitOK    = 0
	ExitFatal = 1
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithCause returns an error that matches kind and keeps cause in its chain.
func WithCause(kind *Error, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{message: kind.message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// ExitCode maps a run error to the process exit status. Every error that
// reaches the top level is fatal; per-file failures never get this far.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitFatal
}

// Describe names the fatal class of err for the final log line.
func Describe(err error) string {
	switch {
	case err == nil:
		return "ok"
	case Is(err, ErrInputDirNotFound), Is(err, ErrInvalidConfig):
		return "configuration error"
	case Is(err, ErrBackendLoad):
		return "backend error"
	default:
		return "unexpected error"
	}
}
