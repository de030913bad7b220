package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a resource exists but is not owned by the acting user
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned for duplicate names and resources that still have dependents
	ErrConflict = errors.New("conflict")
	// ErrInvalidOperation is returned when a well-formed request is not allowed by ledger rules
	ErrInvalidOperation = errors.New("invalid operation")
)

// Resource names used in errors and authorization decisions.
const (
	ResourceUser        = "user"
	ResourceAccount     = "account"
	ResourceCategory    = "category"
	ResourceTransaction = "transaction"
)

// Error is a classified domain error. Kind is one of the sentinel errors above
// so callers can match with errors.Is while still reading field-level details.
type Error struct {
	Kind     error
	Resource string
	Message  string
	Fields   map[string]string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Fields[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// NewValidationError reports malformed or out-of-range input for a single field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NewNotFoundError reports an unknown resource id.
func NewNotFoundError(resource string) *Error {
	return &Error{
		Kind:     ErrNotFound,
		Resource: resource,
		Message:  resource + " not found",
		Fields:   map[string]string{resource: resource + " not found"},
	}
}

// NewAuthorizationError reports a resource that exists but belongs to someone else.
func NewAuthorizationError(resource, message string) *Error {
	return &Error{
		Kind:     ErrForbidden,
		Resource: resource,
		Message:  message,
		Fields:   map[string]string{"authorization": message},
	}
}

// NewConflictError reports duplicate names or resources that are still referenced.
func NewConflictError(resource, field, message string) *Error {
	return &Error{
		Kind:     ErrConflict,
		Resource: resource,
		Message:  message,
		Fields:   map[string]string{field: message},
	}
}

// NewInvalidOperationError reports an operation the ledger rules do not allow.
func NewInvalidOperationError(resource, field, message string) *Error {
	return &Error{
		Kind:     ErrInvalidOperation,
		Resource: resource,
		Message:  message,
		Fields:   map[string]string{field: message},
	}
}

// FieldErrors extracts the field-level messages of a classified error, if any.
func FieldErrors(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// Message returns the human readable part of a classified error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return ""
}
