package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrPermission is returned on any tenant or role mismatch. A request
	// whose target entity belongs to another tenant fails loudly with this
	// error; it is never silently filtered.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound is returned when the target entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransient wraps backing-store and network faults, including
	// timeouts surfaced by the store client.
	ErrTransient = errors.New("backing store unavailable")

	// ErrProfileLookup marks a profile lookup failure during sign-in. It is
	// recoverable: the identity resolver absorbs it and degrades to the
	// fallback role instead of failing the sign-in.
	ErrProfileLookup = errors.New("profile lookup failed")
)

// FieldError points a validation failure at a specific input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input, e.g. a password mismatch on
// user creation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// translateStoreError maps raw gorm/driver errors onto the repository
// taxonomy. Unknown faults are treated as transient so callers see one
// consistent failure mode for store trouble.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, ErrPermission),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTransient),
		IsValidationError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}
