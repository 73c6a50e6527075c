// Package errors provides structured error types and error handling utilities.
package errors

import (
	"errors"
	"fmt"
)

// Wrap creates a new error by wrapping an existing error with additional context.
// This uses fmt.Errorf with %w verb for proper error chain support.
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// New creates a new error using fmt.Errorf.
func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join wraps multiple errors into a single error.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Ranking failures. Every error returned by the ranking engine matches exactly
// one of these with Is.
var (
	ErrMissingFile      = errors.New("missing file")
	ErrEmptyResult      = errors.New("no files to compare")
	ErrFilesystemAccess = errors.New("filesystem access error")
)

// Errors raised outside the engine.
var (
	ErrValidation    = errors.New("validation error")
	ErrSecurity      = errors.New("security error")
	ErrConfiguration = errors.New("configuration error")
	ErrExecution     = errors.New("execution error")
)

// PathError records a ranking failure tied to one input path.
type PathError struct {
	// Kind is one of ErrMissingFile or ErrFilesystemAccess.
	Kind error
	Path string
	// Err is the underlying cause, if any.
	Err error
}

func (e *PathError) Error() string {
	switch {
	case e.Kind == ErrMissingFile:
		return fmt.Sprintf("file '%s' not found", e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MissingFile returns a Missing-File failure for path.
func MissingFile(path string) error {
	return &PathError{Kind: ErrMissingFile, Path: path}
}

// FilesystemAccess returns a Filesystem-Access failure for path caused by err.
func FilesystemAccess(path string, err error) error {
	return &PathError{Kind: ErrFilesystemAccess, Path: path, Err: err}
}

// ContentAccess returns a Filesystem-Access failure raised while comparing the
// contents of two files, where the cause names the path that failed.
func ContentAccess(err error) error {
	return fmt.Errorf("%w: comparing content: %w", ErrFilesystemAccess, err)
}

func Validation(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func Security(message string) error {
	return fmt.Errorf("%w: %s", ErrSecurity, message)
}

func SecurityWithDetails(message, details string) error {
	return fmt.Errorf("%w: %s (%s)", ErrSecurity, message, details)
}

func ConfigurationWithCause(message string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfiguration, message, cause)
}

func ExecutionWithCause(message string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrExecution, message, cause)
}

// Process exit codes.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUsage            = 2
	ExitMissingFile      = 3
	ExitEmptyResult      = 4
	ExitFilesystemAccess = 5
)

// ExitCode maps err to the process exit code the CLI reports for it.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMissingFile):
		return ExitMissingFile
	case errors.Is(err, ErrEmptyResult):
		return ExitEmptyResult
	case errors.Is(err, ErrFilesystemAccess):
		return ExitFilesystemAccess
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return ExitUsage
	default:
		return ExitFailure
	}
}
