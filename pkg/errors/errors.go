// Package errors defines the coded error type surfaced by the launcher core.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of failure independently of its message.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Surfaced by every staging step.
	ErrNetwork    ErrorCode = "NETWORK"
	ErrFilesystem ErrorCode = "FILESYSTEM"
	ErrParse      ErrorCode = "PARSE"

	ErrVersionNotFound ErrorCode = "VERSION_NOT_FOUND"
	ErrNoAccount       ErrorCode = "NO_ACCOUNT"
	ErrAccountExpired  ErrorCode = "ACCOUNT_EXPIRED"
	ErrLaunch          ErrorCode = "LAUNCH"
	ErrConfigLoad      ErrorCode = "CONFIG_LOAD"
)

// LauncherError is a structured error with a stable code and optional details.
type LauncherError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *LauncherError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *LauncherError) Unwrap() error {
	return e.Wrapped
}

// Is matches any *LauncherError carrying the same code.
func (e *LauncherError) Is(target error) bool {
	var targetErr *LauncherError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

func New(code ErrorCode, message string) *LauncherError {
	return &LauncherError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *LauncherError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns nil when err is nil so it can be used on a return path directly.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &LauncherError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *LauncherError) WithDetail(key string, value interface{}) *LauncherError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether the outermost LauncherError in err's chain
// carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	var lerr *LauncherError
	if errors.As(err, &lerr) {
		return lerr.Code == code
	}
	return false
}

// GetErrorCode returns the outermost code in err's chain, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var lerr *LauncherError
	if errors.As(err, &lerr) {
		return lerr.Code
	}
	return ErrUnknown
}
