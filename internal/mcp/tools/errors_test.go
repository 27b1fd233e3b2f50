package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/jsonshape-mcp/internal/jsonl"
)

func TestWrapLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no files", fmt.Errorf("x: %w", jsonl.ErrNoFiles), ErrCodeNotFound},
		{"missing file", fmt.Errorf("open: %w", fs.ErrNotExist), ErrCodeNotFound},
		{"cancelled", fmt.Errorf("loading samples: %w", context.Canceled), ErrCodeTimeout},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"other", errors.New("boom"), ErrCodeLoadError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapLoadError(tt.err)
			assertCode(t, err, tt.code)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, WrapLoadError(nil))
}

func TestCodedError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: sample set not found: x", ErrNotFound("sample set", "x").Error())
	assert.Equal(t, "LOAD_ERROR: failed: boom",
		(&CodedError{Code: ErrCodeLoadError, Message: "failed", Cause: errors.New("boom")}).Error())
}
