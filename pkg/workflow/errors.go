package workflow

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced report does not exist.
var ErrNotFound = errors.New("report not found")

// ErrConflict is returned when a concurrent modification is detected while
// applying a transition. Callers should re-read the report and retry with
// fresh state; the workflow itself never retries.
var ErrConflict = errors.New("report was modified concurrently")

// ValidationError reports malformed input: a missing required field, an
// out-of-range value, or an unknown enum value. It is surfaced to the
// caller immediately and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
