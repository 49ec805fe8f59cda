package usecase

import (
	"errors"
	"strings"
)

var (
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrFormDetached         = errors.New("form is no longer attached to a client")
	ErrRelayNotConfigured   = errors.New("relay credentials are not configured")
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type ErrorKind string

const (
	LengthError ErrorKind = "LENGTH_ERROR"
	FormatError ErrorKind = "FORMAT_ERROR"
)

type ValidationError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the field-level result of a failed validation.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Field returns the error reported for the given JSON field name.
func (v ValidationErrors) Field(name string) (ValidationError, bool) {
	for _, e := range v {
		if e.Field == name {
			return e, true
		}
	}
	return ValidationError{}, false
}

// ByField renders the errors as a field -> message map for the UI.
func (v ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Message
	}
	return out
}

// StoreUnavailableError is returned by every primary store failure.
// Message is safe to show to the user; Cause is for the logs.
type StoreUnavailableError struct {
	Op      string
	Message string
	Cause   error
}

func NewStoreUnavailableError(op string, cause error) *StoreUnavailableError {
	return &StoreUnavailableError{Op: op, Cause: cause}
}

func (e *StoreUnavailableError) Error() string {
	if e.Cause == nil {
		return "store unavailable: " + e.Op
	}
	return "store unavailable: " + e.Op + ": " + e.Cause.Error()
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

func IsStoreUnavailable(err error) bool {
	var se *StoreUnavailableError
	return errors.As(err, &se)
}

// PublicMessage is the text shown in the form's error banner.
func PublicMessage(err error) string {
	var se *StoreUnavailableError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericSubmitError
}
