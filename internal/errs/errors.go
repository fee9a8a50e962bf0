// Package errs provides the unified error type used across the database module.
//
// Every subsystem (config, resolver, postgres and mongodb adapters) wraps its
// native errors into *errs.Error before returning them to callers. Callers use
// the Is* predicates to branch on the failure without importing driver
// packages, and the response package renders any *Error as the uniform
// failure payload.
//
// Usage:
//
//	// In an adapter, wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "There was an error: "+text, pgErr)
//
//	// In a caller, check the error kind:
//	if errs.IsUnrecognizedBackend(err) {
//	    ...
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
// Both backends (Postgres, MongoDB) map their native errors to one of these
// kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown             ErrKind = iota
	ErrKindNotFound                    // unknown configuration name
	ErrKindConnectionFailed            // cannot open or reach the backend
	ErrKindTimeout                     // context deadline / cancellation
	ErrKindQueryFailed                 // statement or driver operation error
	ErrKindInvalidInput                // bad arguments from the caller
	ErrKindNoConfiguration             // registry empty or variable absent
	ErrKindUnrecognizedBackend         // address names no known backend
	ErrKindUniqueViolation             // relational uniqueness constraint
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindNoConfiguration:
		return "no_configuration"
	case ErrKindUnrecognizedBackend:
		return "unrecognized_backend"
	case ErrKindUniqueViolation:
		return "unique_violation"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every operation in the module.
// Message is the caller-facing text carried in the uniform failure payload.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err names a configuration that does not exist.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a failure to open a connection.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend execution failure.
// Unique violations count as query failures.
func IsQueryFailed(err error) bool {
	k := KindOf(err)
	return k == ErrKindQueryFailed || k == ErrKindUniqueViolation
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsNoConfiguration reports whether no database configuration is available.
func IsNoConfiguration(err error) bool {
	return KindOf(err) == ErrKindNoConfiguration
}

// IsUnrecognizedBackend reports whether an address matched no backend marker.
func IsUnrecognizedBackend(err error) bool {
	return KindOf(err) == ErrKindUnrecognizedBackend
}

// IsUniqueViolation reports whether err is a relational uniqueness violation.
func IsUniqueViolation(err error) bool {
	return KindOf(err) == ErrKindUniqueViolation
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// MessageOf returns the caller-facing message of err. For errors that are not
// an *Error, the plain error text is returned.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
