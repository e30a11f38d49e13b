// Package errors provides structured error types for tiletree.
//
// This package defines error codes and types that enable:
//   - Consistent fault reporting across the layout engine, CLI and debug API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - Layout faults: STRUCTURAL_VIOLATION, ORPHANED_NODE, UNKNOWN_WINDOW,
//     INVALID_WINDOW_HANDLE
//   - INTERNAL_*: Unexpected internal errors
//
// The layout engine never returns these to its caller. It logs them and
// reports them to observability hooks; collaborators return them to the
// engine to signal recoverable conditions.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownWindow, "window %s is not tiled", h)
//	if errors.Is(err, errors.ErrCodeUnknownWindow) {
//	    // Handle missing window
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidCommand  Code = "INVALID_COMMAND"
	ErrCodeInvalidHandle   Code = "INVALID_HANDLE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Layout faults
	ErrCodeStructuralViolation Code = "STRUCTURAL_VIOLATION"
	ErrCodeOrphanedNode        Code = "ORPHANED_NODE"
	ErrCodeUnknownWindow       Code = "UNKNOWN_WINDOW"
	ErrCodeInvalidWindowHandle Code = "INVALID_WINDOW_HANDLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidScenario,
		ErrCodeInvalidCommand, ErrCodeInvalidHandle:
		return true
	}
	return false
}

// IsNotFound reports whether err means a requested resource does not exist.
// Unknown windows count as not found.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeUnknownWindow:
		return true
	}
	return false
}
