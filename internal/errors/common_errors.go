package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParse            ErrorType = "PARSE"
	ErrTypeEmptyInput       ErrorType = "EMPTY_INPUT"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeInternal         ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewParseError creates a date-parse error identifying the offending row.
// Parse errors are fatal to the analysis run.
func NewParseError(message string, row int, cause error) *AppError {
	return NewAppError(ErrTypeParse, message, cause).WithContext("row", row)
}

// NewEmptyInputError creates an empty-input error (no rows or no numeric
// columns). Fatal to the analysis run.
func NewEmptyInputError(message string) *AppError {
	return NewAppError(ErrTypeEmptyInput, message, nil)
}

// NewInsufficientDataError creates a per-column insufficient-data error.
// Non-fatal: the column's statistical pass is skipped and the skip is noted
// in the report.
func NewInsufficientDataError(column string, have, min int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("column %q has %d non-null values, need at least %d", column, have, min), nil).
		WithContext("column", column).
		WithContext("have", have).
		WithContext("min", min)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsParseError reports whether err is a date-parse error
func IsParseError(err error) bool {
	return IsType(err, ErrTypeParse)
}

// IsEmptyInputError reports whether err is an empty-input error
func IsEmptyInputError(err error) bool {
	return IsType(err, ErrTypeEmptyInput)
}

// IsInsufficientDataError reports whether err is a per-column
// insufficient-data error
func IsInsufficientDataError(err error) bool {
	return IsType(err, ErrTypeInsufficientData)
}
