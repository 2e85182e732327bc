// Package errors provides the error taxonomy used across the survey duplicator.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeUsage         ErrorCode = "USAGE_ERROR"
	ErrCodeFile          ErrorCode = "FILE_ERROR"
	ErrCodeRequest       ErrorCode = "REQUEST_ERROR"
	ErrCodeDecode        ErrorCode = "DECODE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is reports a match for any *StandardError carrying the same code, so callers
// can write errors.Is(err, &StandardError{Code: ErrCodeDecode}).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns the error with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError reports a missing or invalid configuration value.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Invalid configuration",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUsageError reports a malformed command line. It is never fatal.
func NewUsageError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUsage,
		Message:   "Invalid invocation",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileError reports an unreadable or malformed course list.
func NewFileError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFile,
		Message:   "Course file error",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRequestError reports a transport failure or a rejected call to the survey platform.
func NewRequestError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequest,
		Message:   fmt.Sprintf("Survey platform request '%s' failed", operation),
		Details:   err.Error(),
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDecodeError reports a response body that does not have the expected shape.
func NewDecodeError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecode,
		Message:   fmt.Sprintf("Survey platform response for '%s' could not be decoded", operation),
		Details:   err.Error(),
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf returns the code of the first StandardError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err's chain contains a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// GetErrorCategory returns the category of the error code, as used in log output.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case codeStr == "":
		return "OTHER"
	case strings.HasSuffix(codeStr, "_ERROR"):
		return strings.TrimSuffix(codeStr, "_ERROR")
	default:
		return "OTHER"
	}
}
