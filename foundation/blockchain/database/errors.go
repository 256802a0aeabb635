package database

import (
	"errors"
	"fmt"
)

// Set of error kinds a validation failure is classified under. Use errors.Is
// against these values to decide how a failure should be reported.
var (
	ErrIntegrity = errors.New("integrity error")
	ErrFormat    = errors.New("format error")
	ErrPolicy    = errors.New("policy error")
	ErrAuth      = errors.New("auth error")
)

// ValidationError is returned when a transaction or block fails validation.
type ValidationError struct {
	Kind   error
	Reason string
	Err    error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("%s: %s", ve.Reason, ve.Err)
	}
	return ve.Reason
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (ve *ValidationError) Unwrap() []error {
	if ve.Err != nil {
		return []error{ve.Kind, ve.Err}
	}
	return []error{ve.Kind}
}

// KindOf returns the kind of validation failure contained in the error or
// nil if the error did not come from validation.
func KindOf(err error) error {
	for _, kind := range []error{ErrIntegrity, ErrFormat, ErrPolicy, ErrAuth} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// =============================================================================

func integrityError(reason string) error {
	return &ValidationError{Kind: ErrIntegrity, Reason: reason}
}

func formatError(reason string, err error) error {
	return &ValidationError{Kind: ErrFormat, Reason: reason, Err: err}
}

func policyError(reason string) error {
	return &ValidationError{Kind: ErrPolicy, Reason: reason}
}

func authError(reason string, err error) error {
	return &ValidationError{Kind: ErrAuth, Reason: reason, Err: err}
}
