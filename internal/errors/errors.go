// Package errors provides structured error handling for local validation
// and remote store failures.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// TypeValidation indicates input rejected before any network call.
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a task id that is not in the local collection.
	TypeNotFound ErrorType = "not_found"
	// TypeTransport indicates the request never produced a response.
	TypeTransport ErrorType = "transport"
	// TypeStatus indicates the store answered with a non-2xx status.
	TypeStatus ErrorType = "status"
	// TypeDecode indicates a success response whose body could not be decoded.
	TypeDecode ErrorType = "decode"
	// TypeInternal indicates anything else.
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Remote reports whether the error came from talking to the store.
func (e *Error) Remote() bool {
	switch e.Type {
	case TypeTransport, TypeStatus, TypeDecode:
		return true
	default:
		return false
	}
}

// ValidationError creates a new validation error.
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error.
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// TransportError creates a new error for a request that got no response.
func TransportError(message string, cause error) *Error {
	return &Error{
		Type:    TypeTransport,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// StatusError creates a new error for a non-2xx response to op.
func StatusError(op string, status int) *Error {
	return &Error{
		Type:    TypeStatus,
		Message: fmt.Sprintf("%s: unexpected status %d", op, status),
		Context: map[string]any{"status": status},
	}
}

// DecodeError creates a new error for an unreadable response body.
func DecodeError(message string, cause error) *Error {
	return &Error{
		Type:    TypeDecode,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error.
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("unexpected error", err)
}

// IsValidation reports whether err is a local rejection (validation or not found).
func IsValidation(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == TypeValidation || e.Type == TypeNotFound
}

// IsRemote reports whether err is a remote store failure.
func IsRemote(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Remote()
}
