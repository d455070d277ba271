package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Growth Book error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409 (export already in flight)
	ErrExportFailed   ErrorCode = "EXPORT_FAILED"   // 500, caught at the top of the export flow
	ErrCancelled      ErrorCode = "CANCELLED"       // 499, superseded by a newer request
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// BookError represents a structured error with code, status, and details.
// Every code is a local-recovery error: the worst case anywhere in the
// pipeline is "export did not complete", always retryable.
type BookError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *BookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BookError {
	return &BookError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing entry or draft.
func NewNotFound(identifier string) *BookError {
	return &BookError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error, used when an export is triggered while
// a previous one for the same exporter is still running.
func NewConflict(msg string) *BookError {
	return &BookError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewExportFailed wraps an unexpected render/merge/serialize failure.
// The export flow surfaces this as a single user-facing notice and resets
// state so the action can be retried.
func NewExportFailed(err error) *BookError {
	msg := "export did not complete"
	if err != nil {
		msg = fmt.Sprintf("export did not complete: %v", err)
	}
	return &BookError{
		Code:    ErrExportFailed,
		Status:  500,
		Message: msg,
	}
}

// NewCancelled creates an error for an operation whose result was
// discarded because a newer request superseded it.
func NewCancelled(op string) *BookError {
	return &BookError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic so internal details (paths, SQL errors) never
// reach a user surface; the original error is kept in Details for logging.
func NewInternal(err error) *BookError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &BookError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a BookError with the given code.
func Is(err error, code ErrorCode) bool {
	var bErr *BookError
	if stderrors.As(err, &bErr) {
		return bErr.Code == code
	}
	return false
}
