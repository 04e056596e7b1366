// Package apperr defines the error taxonomy shared across the service.
// Handlers map these error kinds onto HTTP status codes; everything else
// wraps or returns them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInvalidState
	KindUnauthorized
	KindForbidden
)

// Error is the typed application error carried across layer boundaries.
type Error struct {
	kind    Kind
	message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.message
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// NewValidationError reports invalid caller-supplied input.
func NewValidationError(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

// NewNotFoundError reports a missing entity by type and identifier.
func NewNotFoundError(entity, id string) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewConflictError reports a concurrent-modification or uniqueness conflict.
func NewConflictError(message string) *Error {
	return &Error{kind: KindConflict, message: message}
}

// NewInvalidStateError reports a disallowed lifecycle transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{kind: KindInvalidState, message: fmt.Sprintf("invalid state transition from %s to %s", from, to)}
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(message string) *Error {
	return &Error{kind: KindUnauthorized, message: message}
}

// NewForbiddenError reports an authenticated caller lacking permission.
func NewForbiddenError(message string) *Error {
	return &Error{kind: KindForbidden, message: message}
}

// KindOf extracts the Kind from any error, returning KindUnknown for
// errors outside this taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindUnknown
}
