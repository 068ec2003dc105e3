package service

import (
	"errors"
	"fmt"

	"github.com/petslib-api/internal/validation"
)

// Error categories returned by every service. Callers test with errors.Is;
// anything outside these is a storage failure.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a category together with the message shown to the client
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// validate runs struct validation and reports failures as ErrValidation
func validate(v interface{}) error {
	if err := validation.Struct(v); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return &Error{Kind: ErrValidation, Message: fieldErrs.Error()}
		}
		return validationError("%v", err)
	}
	return nil
}
