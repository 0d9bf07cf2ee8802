package identity

import (
	"errors"
	"fmt"
)

// Sentinel kinds for correction errors.
var (
	ErrNilCatalog = errors.New("nil source catalog")

	// ErrValidation is matched by every *ValidationError via errors.Is.
	ErrValidation = errors.New("invalid correction input")
)

// ValidationError rejects a correction before any source is touched.
// Field names the offending input so callers can render a field-specific
// message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
