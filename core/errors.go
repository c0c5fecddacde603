package core

import "github.com/pkg/errors"

// ErrNotFound is the root of every "no such row" error. Domain packages wrap it so that the API layer
// can answer 404 without knowing about each of them.
var ErrNotFound = errors.New("not found")

// NotFoundError is a domain flavoured ErrNotFound.
type NotFoundError struct {
	Message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}

func (err NotFoundError) Error() string { return err.Message }

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (err NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err, or the error it wraps, denotes a missing row.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	switch cause := errors.Cause(err).(type) {
	case *NotFoundError:
		return true
	default:
		return cause == ErrNotFound
	}
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
