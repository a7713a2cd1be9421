package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNoActiveLoan    = errors.New("no active loan for serial number")
	ErrNoUserSelected  = errors.New("no user selected for the loan")
	ErrSerialImmutable = errors.New("serial number cannot change")
)

// NetworkError means the backend produced no response at all.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: backend unreachable: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a response the backend rejected. Body keeps the raw payload.
type ServerError struct {
	Method  string
	URL     string
	Status  int
	Message string
	Body    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.Status, e.Body)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ValidationError is raised before any backend call is made.
type ValidationError struct {
	Field string
	Rule  string
	// Key is the translation key shown to the user.
	Key string
	// Err is the sentinel behind the rule, if any.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func Validation(field, rule, key string) error {
	return &ValidationError{Field: field, Rule: rule, Key: key}
}

// NoUserSelected rejects a loan step that has no borrower.
func NoUserSelected() error {
	return &ValidationError{Field: "usuario_id", Rule: "required", Key: "instruments.userRequired", Err: ErrNoUserSelected}
}

func SerialImmutable() error {
	return &ValidationError{Field: "num_serie", Rule: "immutable", Key: "instruments.serialImmutable", Err: ErrSerialImmutable}
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps an error to the status the gateway answers with.
func HTTPStatus(err error) int {
	var (
		ne *NetworkError
		se *ServerError
		ve *ValidationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusBadGateway
	case errors.As(err, &se):
		return se.Status
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoActiveLoan):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
