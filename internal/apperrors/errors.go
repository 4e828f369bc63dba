// Package apperrors defines the error taxonomy shared by services and
// handlers. Services translate every recognized condition into one of these
// kinds; handlers only map kinds to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message, field string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Field: field}
}

func BusinessRule(message string) *Error {
	return &Error{Kind: KindValidation, Code: "BUSINESS_RULE_VIOLATION", Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: "AUTHENTICATION_FAILED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "AUTHORIZATION_FAILED", Message: message}
}

// NotFound covers both genuinely missing resources and resources the caller
// may not see (wrong organization). The two are deliberately
// indistinguishable.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func AlreadyExists(resource, field string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
		Field:   field,
	}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "Internal server error", Err: err}
}

// KindOf extracts the kind from any error, defaulting to internal for
// unclassified failures (storage errors surface here unmodified).
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the typed error if err carries one.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
