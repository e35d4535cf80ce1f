// Package errors defines the domain error taxonomy shared by the gateways,
// controllers, and the assignment workflow.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for dispatch and reporting.
type Kind string

const (
	// KindValidation indicates invalid input rejected before any network call.
	KindValidation Kind = "validation"
	// KindNoSession indicates no token was present at dispatch time.
	KindNoSession Kind = "no_session"
	// KindAuthentication indicates the backend rejected the session (401)
	// or a login produced no token.
	KindAuthentication Kind = "authentication"
	// KindRejected indicates the backend refused the request (400) and
	// supplied a message.
	KindRejected Kind = "rejected"
	// KindTransport indicates an unexpected status or a network-level
	// failure.
	KindTransport Kind = "transport"
)

// Error is a structured domain error with a kind, a user-facing message,
// an optional wrapped cause, and the HTTP status that produced it (0 when
// the failure never yielded a status).
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error naming the violated constraint.
func Validation(constraint string) *Error {
	return &Error{Kind: KindValidation, Message: constraint}
}

// NoSession creates a no-active-session error.
func NoSession() *Error {
	return &Error{Kind: KindNoSession, Message: "no active session"}
}

// Authentication creates an authentication error for the given cause.
func Authentication(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Status: 401, Cause: cause}
}

// Rejected creates a rejected-request error carrying the server message.
func Rejected(serverMessage string) *Error {
	return &Error{Kind: KindRejected, Message: serverMessage, Status: 400}
}

// Transport creates a transport failure for an unexpected status.
func Transport(status int, message string) *Error {
	return &Error{Kind: KindTransport, Message: message, Status: status}
}

// TransportCause creates a transport failure for a network-level error
// that never produced a status.
func TransportCause(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, Cause: cause}
}

// Wrap returns a copy of err with the user-facing message replaced and the
// original error preserved as the cause. Non-domain errors become transport
// failures.
func Wrap(err error, message string) *Error {
	var de *Error
	if errors.As(err, &de) {
		return &Error{Kind: de.Kind, Message: message, Status: de.Status, Cause: err}
	}
	return &Error{Kind: KindTransport, Message: message, Cause: err}
}

// KindOf returns the kind of err, or "" if err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
