// Package errors provides structured error types for the labelforge
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NO_*: Batch precondition failures (guarded early returns, see below)
//   - RENDER_*: Symbol rendering failures
//   - INTERNAL_*: Unexpected internal errors
//
// Batch precondition codes deserve a note: an export given no valid
// records or a zero-capacity grid is aborted before any I/O and surfaced
// to the user, never treated as a crash. Per-record failures are absorbed
// locally and never carry one of these codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPayload, "EAN-13 needs 12 or 13 digits, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidPayload) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "saving collection %q", name)
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
	ErrCodeInvalidPayload Code = "INVALID_PAYLOAD"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidUnit    Code = "INVALID_UNIT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Batch precondition errors
	ErrCodeNoValidRecords Code = "NO_VALID_RECORDS"
	ErrCodeNoCapacity     Code = "NO_CAPACITY"

	// Rendering errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Import errors
	ErrCodeParseFailed Code = "PARSE_FAILED"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStore    Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsPrecondition reports whether err is a batch precondition failure
// (no valid records or zero grid capacity). Callers use this to surface
// a message instead of a stack-style error.
func IsPrecondition(err error) bool {
	code := GetCode(err)
	return code == ErrCodeNoValidRecords || code == ErrCodeNoCapacity
}
