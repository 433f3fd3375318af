package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports invalid input or a broken business rule (HTTP 400).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// NotFoundError reports a missing row (HTTP 404).
type NotFoundError struct {
	Err error
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{errors.New(msg)}
}

func (err NotFoundError) Error() string { return err.Err.Error() }

func (err NotFoundError) Unwrap() error { return err.Err }

// PermissionError reports a caller not allowed to perform an operation (HTTP 403).
type PermissionError struct {
	msg string
}

func NewPermissionError(msg string) error {
	return &PermissionError{msg}
}

func (err PermissionError) Error() string { return err.msg }

var (
	ErrPermissionDenied = NewPermissionError("permission denied")

	// ErrInvalidReference is returned by stores when a row points at a missing parent.
	ErrInvalidReference = NewValidationError(errors.New("referenced record does not exist"))
)

// IsNotFound reports whether any error in err's chain is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
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
	var s *shutdown
	return errors.As(err, &s)
}
