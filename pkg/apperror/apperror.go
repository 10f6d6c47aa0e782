package apperror

import (
	"errors"
	"fmt"
)

// Kind is the stable classification of an AppError.
type Kind string

// Closed set of error kinds.
const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServerError  Kind = "server_error"
	KindNetworkError Kind = "network_error"
	KindUnknown      Kind = "unknown"
)

// Kinds returns every kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindUnauthorized,
		KindForbidden,
		KindNotFound,
		KindValidation,
		KindServerError,
		KindNetworkError,
		KindUnknown,
	}
}

// IsAuth reports whether the kind means the session is missing or not allowed.
func (k Kind) IsAuth() bool {
	return k == KindUnauthorized || k == KindForbidden
}

// DefaultTitle returns the human title shown for a kind when none was set.
func DefaultTitle(k Kind) string {
	switch k {
	case KindUnauthorized:
		return "Authentication Required"
	case KindForbidden:
		return "Access Denied"
	case KindNotFound:
		return "Not Found"
	case KindValidation:
		return "Validation Error"
	case KindServerError:
		return "Server Error"
	case KindNetworkError:
		return "Network Error"
	default:
		return "Error"
	}
}

// AppError is the normalized failure value surfaced to UI code.
// It is transient: created per failed operation and never persisted.
type AppError struct {
	// Err is the underlying cause (for logging and errors.Is), may be nil.
	Err error

	// Code is the error kind.
	Code Kind

	// Message is the user-facing message.
	Message string

	// Title is a short heading for error displays.
	Title string

	// Status is the HTTP status code, zero when the failure was not an HTTP response.
	Status int
}

// Option configures an AppError.
type Option func(*AppError)

// WithTitle overrides the default title.
func WithTitle(title string) Option {
	return func(e *AppError) {
		e.Title = title
	}
}

// WithStatus records the HTTP status code.
func WithStatus(status int) Option {
	return func(e *AppError) {
		e.Status = status
	}
}

// WithCause attaches the underlying error.
func WithCause(err error) Option {
	return func(e *AppError) {
		e.Err = err
	}
}

// New creates an AppError of the given kind.
func New(code Kind, message string, opts ...Option) *AppError {
	e := &AppError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	if e.Title == "" {
		e.Title = DefaultTitle(code)
	}
	return e
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// String includes the kind, useful in logs.
func (e *AppError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *AppError by kind, so errors.Is(err, apperror.New(KindNotFound, ""))
// works for kind checks.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As extracts the *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err after normalization. Nil errors have no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return FromUnknown(err).Code
}

// IsKind reports whether err normalizes to the given kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
