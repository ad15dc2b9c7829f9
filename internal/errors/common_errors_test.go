package errors

import (
	"errors"
	"fmt"
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
		{
			name:     "parse error type",
			errType:  ErrTypeParse,
			expected: "PARSE",
		},
		{
			name:     "empty input error type",
			errType:  ErrTypeEmptyInput,
			expected: "EMPTY_INPUT",
		},
		{
			name:     "insufficient data error type",
			errType:  ErrTypeInsufficientData,
			expected: "INSUFFICIENT_DATA",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeEmptyInput,
				Message: "no numeric columns",
				Cause:   nil,
			},
			wantMessage: "[EMPTY_INPUT] no numeric columns",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParse,
				Message: "unparsable date at row 3",
				Cause:   fmt.Errorf("cannot parse \"13/32/2024\""),
			},
			wantMessage: "[PARSE] unparsable date at row 3: cannot parse \"13/32/2024\"",
		},
		{
			name: "error with complex cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "report write failed",
				Cause:   errors.New("disk full"),
			},
			wantMessage: "[STORAGE] report write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying cause")
	err := NewAppError(ErrTypeParse, "wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	noCause := NewEmptyInputError("nothing to analyze")
	assert.Nil(t, noCause.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeValidation, "bad value", nil)
	err.WithContext("field", "iqr_multiplier").WithContext("value", -1.0)

	assert.Equal(t, "iqr_multiplier", err.Context["field"])
	assert.Equal(t, -1.0, err.Context["value"])
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("bad layout")
	err := NewParseError("unparsable date", 7, cause)

	require.NotNil(t, err)
	assert.Equal(t, ErrTypeParse, err.Type)
	assert.Equal(t, 7, err.Context["row"])
	assert.True(t, errors.Is(err, cause))
}

func TestNewInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("close", 3, 4)

	require.NotNil(t, err)
	assert.Equal(t, ErrTypeInsufficientData, err.Type)
	assert.Contains(t, err.Message, `column "close"`)
	assert.Contains(t, err.Message, "3 non-null values")
	assert.Equal(t, "close", err.Context["column"])
	assert.Equal(t, 3, err.Context["have"])
	assert.Equal(t, 4, err.Context["min"])
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		isParse        bool
		isEmpty        bool
		isInsufficient bool
	}{
		{
			name:    "parse error",
			err:     NewParseError("bad date", 0, nil),
			isParse: true,
		},
		{
			name:    "empty input error",
			err:     NewEmptyInputError("zero rows"),
			isEmpty: true,
		},
		{
			name:           "insufficient data error",
			err:            NewInsufficientDataError("volume", 2, 4),
			isInsufficient: true,
		},
		{
			name:    "wrapped parse error",
			err:     fmt.Errorf("normalize: %w", NewParseError("bad date", 1, nil)),
			isParse: true,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isParse, IsParseError(tt.err))
			assert.Equal(t, tt.isEmpty, IsEmptyInputError(tt.err))
			assert.Equal(t, tt.isInsufficient, IsInsufficientDataError(tt.err))
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("analysis")
	assert.Equal(t, ErrTypeNotFound, err.Type)
	assert.Equal(t, "analysis not found", err.Message)
}
