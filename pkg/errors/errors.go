// Package errors provides structured error types for halftone.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// react to the category of a failure without parsing messages:
//   - INVALID_*: rejected input (images, assets, parameters, formats)
//   - NOT_FOUND / RENDER_NOT_FOUND: unknown render ids or files
//   - CACHE_* / STORE_*: backend failures
//   - INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidPattern) {
//	    // reject request
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidImage, decodeErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidImage     Code = "INVALID_IMAGE"
	ErrCodeInvalidAsset     Code = "INVALID_ASSET"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPattern   Code = "INVALID_PATTERN"
	ErrCodeInvalidShapeMode Code = "INVALID_SHAPE_MODE"
	ErrCodeInvalidParams    Code = "INVALID_PARAMS"
	ErrCodeInvalidPreset    Code = "INVALID_PRESET"
	ErrCodeTooLarge         Code = "TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeRenderNotFound Code = "RENDER_NOT_FOUND"

	// Backend errors
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeStore   Code = "STORE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, or "" when err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error
// values and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err is a client-side input error.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidImage, ErrCodeInvalidAsset,
		ErrCodeInvalidFormat, ErrCodeInvalidPattern, ErrCodeInvalidShapeMode,
		ErrCodeInvalidParams, ErrCodeInvalidPreset:
		return true
	}
	return false
}
