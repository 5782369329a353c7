package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds returned by the core. Specific errors wrap one of these with %w.
var (
	ErrMissingIdentity = stderrors.New("missing identity")
	ErrForbidden       = stderrors.New("forbidden")
	ErrNotFound        = stderrors.New("not found")
	ErrValidation      = stderrors.New("validation failed")
	ErrConflict        = stderrors.New("conflict")
	ErrInternal        = stderrors.New("internal error")
)

// ValidationError lists the offending fields of a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Internal wraps an unexpected store failure.
func Internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// Kind returns the taxonomy sentinel err belongs to, or ErrInternal.
func Kind(err error) error {
	for _, kind := range []error{ErrMissingIdentity, ErrForbidden, ErrNotFound, ErrValidation, ErrConflict} {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
