package errors

import (
	"errors"
	"fmt"
)

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates an Error with the given code and a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps err as the cause of a new Error. Returns nil if err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps err as the cause of a new Error with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// Validation creates a general validation error (CodeValidation).
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Validationf creates a general validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return Newf(CodeValidation, format, args...)
}

// NotFound creates a not-found error (CodeNotFound).
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Unauthorized creates an authentication error (CodeAuthentication).
func Unauthorized(message string) *Error {
	return New(CodeAuthentication, message)
}

// Forbidden creates an authorization error (CodeAuthorization).
func Forbidden(message string) *Error {
	return New(CodeAuthorization, message)
}

// Internal creates an internal error (CodeInternal).
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Unavailable creates a service-unavailable error (CodeUnavailable).
func Unavailable(message string) *Error {
	return New(CodeUnavailable, message)
}

// FromError converts any error to an *Error. An existing *Error anywhere in
// the chain is returned as-is; anything else is wrapped as CodeInternal with
// a generic client-safe message.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, CodeInternal, "an unexpected error occurred")
}
