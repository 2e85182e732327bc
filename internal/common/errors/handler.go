// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// ErrorHandler reports run failures with standardized fields.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRunError logs err with its category and returns the process exit code.
func (h *ErrorHandler) HandleRunError(err error) int {
	if err == nil {
		return 0
	}

	stdErr := h.normalizeError(err)
	if stdErr.Code == ErrCodeUsage {
		return 0
	}

	fields := map[string]interface{}{
		"code":     string(stdErr.Code),
		"category": GetErrorCategory(stdErr.Code),
		"details":  stdErr.Details,
		"error":    err.Error(),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	h.logger.Error(stdErr.Message, fields)
	return 1
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
