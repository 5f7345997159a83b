// Package errors provides coded domain errors for the recommender.
//
// Usage:
//
//	// In the core - return typed errors
//	if len(cols) == 0 {
//	    return nil, errors.InvalidQuery("at least one genre must be selected")
//	}
//
//	// In callers - match by code with errors.Is
//	if errors.Is(err, errors.ErrInvalidQuery) {
//	    // ask the user again
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeLoad          Code = "LOAD_ERROR"
	CodeInvalidQuery  Code = "INVALID_QUERY"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAmbiguous     Code = "AMBIGUOUS_TITLE"
	CodeValidation    Code = "VALIDATION"
	CodeLookupFailure Code = "LOOKUP_FAILURE"
	CodeRateLimited   Code = "RATE_LIMITED"
	CodeInternal      Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidQuery, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAmbiguous:
		return http.StatusConflict
	case CodeLookupFailure:
		return http.StatusBadGateway
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeLoad:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrLoad          = &Error{Code: CodeLoad, Message: "catalog load failed"}
	ErrInvalidQuery  = &Error{Code: CodeInvalidQuery, Message: "invalid query"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAmbiguous     = &Error{Code: CodeAmbiguous, Message: "ambiguous title"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrLookupFailure = &Error{Code: CodeLookupFailure, Message: "external lookup failed"}
	ErrRateLimited   = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Load creates a load error. Load errors abort startup.
func Load(msg string) *Error {
	return &Error{Code: CodeLoad, Message: msg}
}

// Loadf creates a load error with formatted message.
func Loadf(format string, args ...any) *Error {
	return &Error{Code: CodeLoad, Message: fmt.Sprintf(format, args...)}
}

// InvalidQuery creates an invalid query error.
func InvalidQuery(msg string) *Error {
	return &Error{Code: CodeInvalidQuery, Message: msg}
}

// InvalidQueryf creates an invalid query error with formatted message.
func InvalidQueryf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidQuery, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Ambiguous creates an ambiguous title error carrying the candidate titles.
func Ambiguous(msg string, candidates []string) *Error {
	return &Error{Code: CodeAmbiguous, Message: msg, Details: candidates}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// LookupFailure wraps a failed external lookup.
func LookupFailure(err error, msg string) *Error {
	return &Error{Code: CodeLookupFailure, Message: msg, cause: err}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
