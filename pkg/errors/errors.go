// Package errors provides structured error types for the collector.
//
// All errors raised by the collector should use these types to enable
// consistent error handling, logging, and retry decisions across the codebase.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Common error codes used throughout the collector.
const (
	// Source document errors
	CodeTransportError    ErrorCode = "TRANSPORT_ERROR"
	CodeDocumentInvalid   ErrorCode = "DOCUMENT_INVALID"
	CodeDetailUnavailable ErrorCode = "DETAIL_UNAVAILABLE"

	// Reconciliation errors
	CodeTranslationMissing    ErrorCode = "TRANSLATION_MISSING"
	CodeCrossReferenceMissing ErrorCode = "CROSS_REFERENCE_MISSING"

	// Sink errors
	CodeSheetError ErrorCode = "SHEET_ERROR"
	CodeDriveError ErrorCode = "DRIVE_ERROR"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"
	CodeSecretError  ErrorCode = "SECRET_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// CollectorError is the base error type for all collector errors.
// It provides structured error information including error codes,
// retry semantics, and contextual metadata.
type CollectorError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *CollectorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CollectorError) Unwrap() error {
	return e.Cause
}

// Is matches by code, so sentinel comparisons survive the copies made by
// WithCause, WithMessage, and WithMetadata.
func (e *CollectorError) Is(target error) bool {
	t, ok := target.(*CollectorError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *CollectorError) WithCause(cause error) *CollectorError {
	return &CollectorError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMessage adds a custom message.
func (e *CollectorError) WithMessage(msg string) *CollectorError {
	return &CollectorError{
		Code:      e.Code,
		Message:   msg,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *CollectorError) WithMetadata(key, value string) *CollectorError {
	meta := make(map[string]string)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &CollectorError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	// Source document errors
	ErrTransport         = &CollectorError{Code: CodeTransportError, Message: "source fetch failed", Retryable: true}
	ErrDocumentInvalid   = &CollectorError{Code: CodeDocumentInvalid, Message: "source document invalid", Retryable: false}
	ErrDetailUnavailable = &CollectorError{Code: CodeDetailUnavailable, Message: "detail document unavailable", Retryable: false}

	// Reconciliation errors
	ErrTranslationMissing    = &CollectorError{Code: CodeTranslationMissing, Message: "translation not found", Retryable: false}
	ErrCrossReferenceMissing = &CollectorError{Code: CodeCrossReferenceMissing, Message: "no matching pilates entry for yoga exercise", Retryable: false}

	// Sink errors
	ErrSheet = &CollectorError{Code: CodeSheetError, Message: "spreadsheet operation failed", Retryable: true}
	ErrDrive = &CollectorError{Code: CodeDriveError, Message: "drive operation failed", Retryable: true}

	// Infrastructure errors
	ErrStorage = &CollectorError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSub  = &CollectorError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}
	ErrSecret  = &CollectorError{Code: CodeSecretError, Message: "secret access error", Retryable: true}

	// General errors
	ErrValidation = &CollectorError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &CollectorError{Code: CodeInternalError, Message: "internal error", Retryable: false}
)

// New creates a new CollectorError with the given code and message.
func New(code ErrorCode, message string) *CollectorError {
	return &CollectorError{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// NewRetryable creates a new retryable CollectorError.
func NewRetryable(code ErrorCode, message string) *CollectorError {
	return &CollectorError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// Wrap wraps an error with a CollectorError.
func Wrap(cause error, code ErrorCode, message string) *CollectorError {
	return &CollectorError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// WrapRetryable wraps an error with a retryable CollectorError.
func WrapRetryable(cause error, code ErrorCode, message string) *CollectorError {
	return &CollectorError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var cErr *CollectorError
	if stderrors.As(err, &cErr) {
		return cErr.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var cErr *CollectorError
	if stderrors.As(err, &cErr) {
		return cErr.Code
	}
	return CodeInternalError
}
