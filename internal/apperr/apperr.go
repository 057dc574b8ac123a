// Package apperr defines the error taxonomy shared by the rules layer and the HTTP
// boundary. Each Kind maps to exactly one HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidAssignment
	KindConflict
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidAssignment:
		return "invalid_assignment"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	}
	return "internal"
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidAssignment:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is the only error type the HTTP layer renders in detail. Message and Fields
// are safe to show to clients; Err is kept for logs.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message, field, detail string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Fields:  map[string][]string{field: {detail}},
	}
}

// Validation wraps field-level messages.
func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "The given data was invalid.", Fields: fields}
}

// Field is a validation error on a single field.
func Field(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

func Unauthenticated(detail string) *Error {
	return newError(KindUnauthenticated, "Unauthenticated.", "auth", detail)
}

func Forbidden(detail string) *Error {
	return newError(KindForbidden, "You are not allowed to perform this action.", "authorization", detail)
}

func NotFound(resource string) *Error {
	return newError(KindNotFound, "The requested resource was not found.", "not_found", resource+" does not exist")
}

func InvalidAssignment(detail string) *Error {
	return newError(KindInvalidAssignment, "The task cannot be assigned to this user.", "assigned_to", detail)
}

func Conflict(field, detail string) *Error {
	return newError(KindConflict, "The request conflicts with existing data.", field, detail)
}

// Store hides a persistence failure behind a generic message.
func Store(err error) *Error {
	e := newError(KindStore, "A database error occurred.", "database", "Please try again later.")
	e.Err = err
	return e
}

func Internal(err error) *Error {
	e := newError(KindInternal, "Unexpected server error.", "server", "Please try again later.")
	e.Err = err
	return e
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns err as *Error, wrapping foreign errors as internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
