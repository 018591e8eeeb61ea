package domain

import (
	"errors"
	"fmt"
)

// Erros base da taxonomia; os tipos abaixo respondem a errors.Is com eles
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
	ErrGateway    = errors.New("channel gateway failure")
)

// ValidationError rejects malformed or invariant-violating input before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError cria um ValidationError para o campo informado
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError references an unknown id.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(entity EntityType, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a command that clashes with the current state, such as
// rescheduling a content/channel pair that was already dispatched.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// GatewayError is returned by a ChannelGateway. Permanent failures are never retried.
type GatewayError struct {
	Channel   Channel
	Permanent bool
	Err       error
}

func (e *GatewayError) Error() string {
	kind := "retryable"
	if e.Permanent {
		kind = "permanent"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s) on channel %s", ErrGateway, kind, e.Channel)
	}
	return fmt.Sprintf("%s (%s) on channel %s: %v", ErrGateway, kind, e.Channel, e.Err)
}

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

func (e *GatewayError) Unwrap() error { return e.Err }

// IsPermanent reports whether err carries a GatewayError marked permanent.
func IsPermanent(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Permanent
	}
	return false
}
