package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError("column Hugo_Symbol missing"),
			expected: "[VALIDATION] column Hugo_Symbol missing",
		},
		{
			name:     "with cause",
			err:      NewParsingError("failed to parse MAF file", fmt.Errorf("line 3: too many fields")),
			expected: "[PARSING] failed to parse MAF file: line 3: too many fields",
		},
		{
			name:     "not found formats resource",
			err:      NewNotFoundError("CNV file", nil),
			expected: "[NOT_FOUND] CNV file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewNotFoundError("CNV file", fs.ErrNotExist)

	assert.True(t, errors.Is(err, fs.ErrNotExist))

	wrapped := fmt.Errorf("stage I: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeNotFound, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	err.WithContext("path", "out.xlsx").WithContext("sheet", "I_CNV_Segment_Stats")

	require.NotNil(t, err.Context)
	assert.Equal(t, "out.xlsx", err.Context["path"])
	assert.Equal(t, "I_CNV_Segment_Stats", err.Context["sheet"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("summarize: %w", NewValidationError("missing column"))

	assert.True(t, IsType(err, ErrTypeValidation))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeValidation))
	assert.False(t, IsType(nil, ErrTypeValidation))
}
