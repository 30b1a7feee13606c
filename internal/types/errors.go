// internal/types/errors.go
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when one upstream fails or answers non-2xx.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEnumerationIncomplete marks a holder enumeration that stopped early.
	ErrEnumerationIncomplete = errors.New("enumeration incomplete")

	// ErrNoDataAvailable is returned when every source for a required value failed.
	ErrNoDataAvailable = errors.New("no data available")

	// ErrConfigurationMissing is returned when a credential or key is absent.
	ErrConfigurationMissing = errors.New("configuration missing")
)

// SourceError carries the upstream name and operation of a failed call.
type SourceError struct {
	Source string
	Op     string
	Status int
	Err    error
}

// Error implements error.
func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Source, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

// Unwrap returns the wrapped error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes every SourceError match ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError builds a SourceError.
func NewSourceError(source, op string, status int, err error) error {
	if err == nil {
		err = ErrSourceUnavailable
	}
	return &SourceError{Source: source, Op: op, Status: status, Err: err}
}
