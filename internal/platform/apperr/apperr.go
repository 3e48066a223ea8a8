// Package apperr defines the error taxonomy shared by the domain services and
// the HTTP error handler.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error codes by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindForbidden
	KindNotFound
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, user-presentable error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches any *Error with the same code, so a sentinel compares equal to
// copies carrying a more specific message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with msg as its message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Code: "validation_error", Message: "invalid input"}
	ErrDuplicateHandle    = &Error{Kind: KindConflict, Code: "duplicate_handle", Message: "username already exists"}
	ErrForbidden          = &Error{Kind: KindForbidden, Code: "forbidden", Message: "access denied"}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "not_found", Message: "record not found"}
	ErrSlotTaken          = &Error{Kind: KindConflict, Code: "slot_taken", Message: "time slot is already booked"}
	ErrNoDoctorsAvailable = &Error{Kind: KindConflict, Code: "no_doctors_available", Message: "no doctors available"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Code: "invalid_credentials", Message: "invalid username or password"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Code: "unauthenticated", Message: "login required"}
)

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...interface{}) *Error {
	return ErrValidation.WithMessage(fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error naming the missing entity.
func NotFound(entity string) *Error {
	return ErrNotFound.WithMessage(entity + " not found")
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
