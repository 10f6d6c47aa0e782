package forms

import (
	"errors"
	"strings"

	"github.com/demoforums/forumclient/pkg/apperror"
)

var (
	// ErrUnknownForm is returned for a form name absent from the rules.
	ErrUnknownForm = errors.New("forms: unknown form")

	// ErrInvalidRules is returned when rules data cannot be loaded.
	ErrInvalidRules = errors.New("forms: invalid rules")
)

// FieldError describes one failed field.
type FieldError struct {
	Field   string
	Label   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors lists failed fields in form order, at most one per field.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the error for a field, if any.
func (e Errors) Field(name string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

// AppError converts the errors to a validation AppError.
func (e Errors) AppError() *apperror.AppError {
	return apperror.New(apperror.KindValidation, e.Error(), apperror.WithCause(e))
}
