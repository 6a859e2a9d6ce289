// Package domainerrors provides coded errors for the service's domain and
// application layers. Stores return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors that transports can map onto
// HTTP statuses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and for callers that
// branch on failure class rather than message text.
type Code string

const (
	// CodeBadRequest marks validation failures surfaced synchronously to the
	// caller, e.g. a command requester without an organisation id.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks malformed field-level input.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks concurrent-modification or uniqueness conflicts.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a state transition the aggregate forbids.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnsupported marks a programming/configuration error such as an
	// unrecognized filter kind reaching the matching engine.
	CodeUnsupported Code = "unsupported"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Compare with HasCode rather than type
// assertions so wrapped errors keep their classification.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode used at transport boundaries.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err without the cause chain.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
