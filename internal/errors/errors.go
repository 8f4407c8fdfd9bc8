// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so the HTTP interceptor can augment a failure with a
// global side effect and still hand the original failure back to its caller.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Unauthorized indicates a 401 response: missing, expired or revoked credential.
	Unauthorized Kind = "unauthorized"
	// Forbidden indicates a 403 response.
	Forbidden Kind = "forbidden"
	// NotFound indicates a 404 response.
	NotFound Kind = "not_found"
	// ServerError indicates a 5xx response.
	ServerError Kind = "server_error"
	// Network indicates that no response was received.
	Network Kind = "network_error"
	// Response indicates any other non-success response.
	Response Kind = "response_error"
)

// E wraps an error with kind and human-friendly message.
// Status is the HTTP status when a response was received, zero otherwise.
type E struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// StatusOf returns the HTTP status of the first *E in err's chain.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsAuthError reports whether err is a 401 failure.
func IsAuthError(err error) bool { return IsKind(err, Unauthorized) }

// IsForbiddenError reports whether err is a 403 failure.
func IsForbiddenError(err error) bool { return IsKind(err, Forbidden) }

// IsNetworkError reports whether err is a failure without a response.
func IsNetworkError(err error) bool { return IsKind(err, Network) }
