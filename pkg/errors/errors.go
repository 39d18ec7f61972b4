package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Action definition errors
	ErrGlobInvalid     ErrorCode = "GLOB_INVALID"
	ErrTemplateInvalid ErrorCode = "TEMPLATE_INVALID"
	ErrTemplateRender  ErrorCode = "TEMPLATE_RENDER"

	// Execution errors
	ErrActionExecute ErrorCode = "ACTION_EXECUTE"
	ErrProcessSpawn  ErrorCode = "PROCESS_SPAWN"
	ErrInterrupted   ErrorCode = "INTERRUPTED"
)

// PrecheckError represents a structured error with code and details
type PrecheckError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PrecheckError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PrecheckError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PrecheckError) Is(target error) bool {
	var targetErr *PrecheckError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PrecheckError with the given code and message
func New(code ErrorCode, message string) *PrecheckError {
	return &PrecheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PrecheckError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PrecheckError {
	return &PrecheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PrecheckError
func Wrap(err error, code ErrorCode, message string) *PrecheckError {
	if err == nil {
		return nil
	}
	return &PrecheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PrecheckError {
	if err == nil {
		return nil
	}
	return &PrecheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PrecheckError) WithDetail(key string, value interface{}) *PrecheckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var perr *PrecheckError
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PrecheckError
func GetErrorCode(err error) ErrorCode {
	var perr *PrecheckError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PrecheckError
func GetErrorDetails(err error) map[string]interface{} {
	var perr *PrecheckError
	if errors.As(err, &perr) {
		return perr.Details
	}
	return nil
}
