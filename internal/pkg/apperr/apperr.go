package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks expected absence (standard not in catalog, no
	// progress record yet). Callers branch on it; it is never fatal.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness-constraint race. Callers resolve it
	// by re-reading and reporting "already exists".
	ErrConflict = errors.New("already exists")
	// ErrProviderUnavailable marks a suggestion-provider outage, including
	// responses that fail schema validation.
	ErrProviderUnavailable = errors.New("suggestion provider unavailable")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// StoreError wraps any persistence failure that is not a plain miss or a
// uniqueness race, so callers can tell an operational failure apart from
// expected absence.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s", e.Op)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError, or returns nil when err is nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err is (or wraps) a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
