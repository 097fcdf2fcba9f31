// Package apperrors defines the error taxonomy shared by every front-end.
//
// Each pipeline stage returns an *Error carrying a stable machine-readable
// code; the transport layer converts it into the uniform response envelope.
// Errors that reach the transport without a code are reported as
// INTERNAL_ERROR with a generic message so driver details and stack traces
// never leak to clients.
package apperrors

import (
	"errors"
	"fmt"
)

// Stable error codes, one per pipeline stage.
const (
	CodeMissingQuestion     = "MISSING_QUESTION"
	CodeEmptyQuestion       = "EMPTY_QUESTION"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeColumnsNotFound     = "COLUMNS_NOT_FOUND"
	CodeSQLGenerationFailed = "SQL_GENERATION_FAILED"
	CodeDataQueryError      = "DATA_QUERY_ERROR"
	CodeTableMetadataError  = "TABLE_METADATA_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Error is a code-bearing error produced by pipeline stages.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the error code from err, or INTERNAL_ERROR if err does
// not carry one.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// MessageOf extracts the user-facing message from err. Errors without a
// code get a generic message so internal details stay out of responses.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
