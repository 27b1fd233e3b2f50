package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/usestring/jsonshape-mcp/internal/jsonl"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeLoadError    = "LOAD_ERROR"
	ErrCodeTimeout      = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapLoadError converts a sample loading error to a coded error.
func WrapLoadError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	switch {
	case errors.Is(err, jsonl.ErrNoFiles), errors.Is(err, fs.ErrNotExist):
		coded = &CodedError{
			Code:    ErrCodeNotFound,
			Message: "no sample files found",
			Cause:   err,
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		coded = &CodedError{
			Code:    ErrCodeTimeout,
			Message: "loading samples was interrupted",
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeLoadError,
			Message: "failed to load samples",
			Cause:   err,
		}
	}

	slog.Warn("sample load error",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
