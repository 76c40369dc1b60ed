// Package apperr defines the error kinds shared by all layers, so callers
// can branch on outcome type instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested exam or registration does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports caller-supplied data that violates a structural
// constraint. No state is mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConsistencyError reports a partial commit: the exam counters and the
// registration record for one attempt did not persist together. The stores
// run both writes inside a single transactional boundary, so this is not
// expected to occur at runtime; it exists so a split failure can never be
// mistaken for success.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation in %s: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}
