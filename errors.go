package linux_installer

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of an InstallError.
type ErrorCode string

const (
	// ErrUsage is returned for wrong commandline usage. Nothing has been touched yet.
	ErrUsage ErrorCode = "USAGE"
	// ErrCancelled is returned when the user declines to clear an existing target.
	ErrCancelled ErrorCode = "CANCELLED"
	// ErrFileSystem covers every failed file or directory operation.
	ErrFileSystem ErrorCode = "FILESYSTEM"
	// ErrConfig is returned for unreadable or invalid configuration.
	ErrConfig ErrorCode = "CONFIG"
)

// InstallError is an error with a category code, an optional set of details and an
// optional wrapped cause.
type InstallError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *InstallError) Unwrap() error { return e.Wrapped }

// Is reports whether target is an InstallError with the same code.
func (e *InstallError) Is(target error) bool {
	var targetErr *InstallError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail adds a key/value detail to the error. Details are logged with the failed
// installation step.
func (e *InstallError) WithDetail(key string, value interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError creates an InstallError without a cause.
func NewError(code ErrorCode, message string) *InstallError {
	return &InstallError{Code: code, Message: message}
}

// Errorf creates an InstallError with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *InstallError {
	return &InstallError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps err with a code and message. A nil err returns nil.
func WrapError(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &InstallError{Code: code, Message: message, Wrapped: err}
}

// WrapErrorf is WrapError with a formatted message.
func WrapErrorf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &InstallError{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// IsErrorCode reports whether err, or any error it wraps, is an InstallError with
// the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var installErr *InstallError
	for err != nil {
		if errors.As(err, &installErr) {
			if installErr.Code == code {
				return true
			}
			err = installErr.Wrapped
			continue
		}
		return false
	}
	return false
}

// fsError wraps a failed file operation. The OS error already names the path, so the
// message only states what was attempted.
func fsError(err error, what string) error {
	return WrapError(err, ErrFileSystem, what)
}
