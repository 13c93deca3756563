package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingIdentifier is returned when a request carries no tenant identifier.
	ErrMissingIdentifier = errors.New("tenantId required")
	// ErrUnknownTenant is returned when a slug (or id) does not match any tenant.
	ErrUnknownTenant = errors.New("unknown tenant")
	// ErrInvalidTimeZone is returned for zone names the tz database does not know.
	ErrInvalidTimeZone = errors.New("invalid time zone")
)

// ValidationError reports a malformed request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError wraps a failure of the external data service.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream tags err as an upstream failure of op. Nil stays nil and errors
// that are already tagged are returned unchanged.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
