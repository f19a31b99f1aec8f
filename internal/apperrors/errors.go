package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or wrong credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is locked by another operation.
var ErrConflict = errors.New("resource is busy")

// Processing failures. Render, delivery and unexpected failures are recorded per salary record
// and can be retried; ErrBatchFatal aborts a whole batch run.
var (
	ErrRenderFailed   = errors.New("document rendering failed")
	ErrDeliveryFailed = errors.New("document delivery failed")
	ErrUnexpected     = errors.New("unexpected processing failure")
	ErrBatchFatal     = errors.New("batch processing aborted")
)

// AppError carries an HTTP status code alongside an infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// RecordFailure is a per-record processing failure. Its message is the underlying detail so it
// can be reported verbatim; errors.Is matches both Kind and the cause.
type RecordFailure struct {
	Kind error
	Err  error
}

func (e *RecordFailure) Error() string {
	return e.Err.Error()
}

func (e *RecordFailure) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
