// Package errors provides structured error types for spiralstair.
//
// Every failure that crosses a package boundary is a typed, inspectable
// value: a machine-readable [Code] plus a human-readable message and an
// optional cause. The codes fall into three recovery classes:
//
//   - INVALID_*: the input is structurally wrong. Recoverable; the caller
//     collects input again.
//   - CALCULATION_FAILURE, INVALID_MID_LANDING: the input cannot produce a
//     buildable stair. Fatal for the current cycle, except that an
//     out-of-range manual mid-landing index sends the user back to input.
//   - everything else: configuration, rendering and infrastructure errors.
//
// Compliance violations are not errors and never use this package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "outside diameter must be positive")
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // ask again
//	}
//
//	err := errors.Wrap(errors.ErrCodeGeometry, cause, "extrude tread %d", i)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidRotation  Code = "INVALID_ROTATION"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidProfile   Code = "INVALID_PROFILE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Layout errors
	ErrCodeCalculation       Code = "CALCULATION_FAILURE"
	ErrCodeInvalidMidLanding Code = "INVALID_MID_LANDING"

	// Geometry and output errors
	ErrCodeGeometry Code = "GEOMETRY_FAILURE"
	ErrCodeRender   Code = "RENDER_FAILURE"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsInvalidInput reports whether err is a recoverable input error.
func IsInvalidInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDimension, ErrCodeInvalidRotation, ErrCodeInvalidDirection:
		return true
	}
	return false
}

// IsCalculationFailure reports whether err came from the layout engine.
// An out-of-range manual mid-landing index counts as a calculation failure;
// callers that want to send the user back to input check
// ErrCodeInvalidMidLanding first.
func IsCalculationFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeCalculation, ErrCodeInvalidMidLanding:
		return true
	}
	return false
}
