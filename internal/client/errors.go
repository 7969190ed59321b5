package client

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrNetwork         = errors.New("network error")
)

const (
	msgNetwork         = "Could not reach the tender service. Please try again."
	msgUnauthenticated = "Your session has ended. Please sign in again."
)

// Error is a failed upstream call or a draft rejected before dispatch.
// Message is what the user sees, verbatim from the backend when it sent one.
type Error struct {
	Kind    error
	Status  int
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}

	return []error{e.Kind}
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// Unauthenticated is returned when a call needs a credential and there is none.
func Unauthenticated() *Error {
	return &Error{Kind: ErrUnauthenticated, Status: http.StatusUnauthorized, Message: msgUnauthenticated}
}

func NotFound(resource, id string) *Error {
	return &Error{Kind: ErrNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf("%s %s was not found", resource, id)}
}

// FieldError builds a validation error for a single field.
func FieldError(field, message string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// FromValidation converts an ozzo-validation result into a field-keyed
// validation error. Internal validation failures are returned as they are.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return &Error{
		Kind:    ErrValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: "Please check the form for errors.",
		Fields:  fields,
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}

	return ErrNetwork
}
