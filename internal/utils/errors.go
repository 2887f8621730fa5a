package utils

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the analysis error taxonomy. Callers classify
// failures with errors.Is rather than string matching.
var (
	// ErrInvalidArgument marks a bad enumerated option, an out-of-range
	// cutoff, or an unparseable selection index. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientData marks a series too short for the requested
	// transform. Aborts the current window only.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrValueNotFound marks a read of a missing field or section in a
	// persisted record. Readers surface it instead of substituting defaults.
	ErrValueNotFound = errors.New("value not found")
)

// InvalidArgumentf wraps ErrInvalidArgument with context.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// InsufficientDataf wraps ErrInsufficientData with context.
func InsufficientDataf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInsufficientData)...)
}

// ValueNotFoundf wraps ErrValueNotFound with context.
func ValueNotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValueNotFound)...)
}

// AppError wraps an operation, human-facing message, and underlying error.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
