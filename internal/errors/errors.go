package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeSourceRead       = "SOURCE_READ_ERROR"
	ErrCodeSchema           = "SCHEMA_ERROR"
	ErrCodeMalformedRecord  = "MALFORMED_RECORD"
	ErrCodeCacheUnavailable = "CACHE_UNAVAILABLE"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "SCHEMA_ERROR", "CACHE_UNAVAILABLE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort a stats computation.
// Cache and store outages degrade the request instead.
func (e *AppError) Fatal() bool {
	switch e.Code {
	case ErrCodeCacheUnavailable, ErrCodeStoreUnavailable:
		return false
	default:
		return true
	}
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As is errors.As re-exported so callers importing this package need not alias the standard one.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewSourceReadError reports a game source that cannot be opened or read.
func NewSourceReadError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSourceRead,
		Message: fmt.Sprintf("cannot read game source %s", source),
		Status:  500,
		Err:     err,
	}
}

// NewSchemaError reports a game table lacking required columns.
func NewSchemaError(missing []string) *AppError {
	return &AppError{
		Code:    ErrCodeSchema,
		Message: fmt.Sprintf("game table is missing columns %v", missing),
		Status:  500,
	}
}

// NewMalformedRecordError reports a game row that cannot be turned into a record.
func NewMalformedRecordError(row int, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedRecord,
		Message: fmt.Sprintf("malformed game record at row %d: %s", row, reason),
		Status:  422,
	}
}

// NewCacheUnavailableError wraps a stats cache backend failure.
func NewCacheUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeCacheUnavailable,
		Message: "stats cache unavailable",
		Status:  503,
		Err:     err,
	}
}

// NewStoreUnavailableError wraps a stats store backend failure.
func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: "stats store unavailable",
		Status:  503,
		Err:     err,
	}
}
