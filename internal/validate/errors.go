// errors.go defines sentinel errors for validation failures.
//
// Each error represents a distinct validation failure category. Detailed
// messages are provided by wrapping these with fmt.Errorf in the
// validation functions.

package validate

import "errors"

var (
	ErrInvalidLabel   = errors.New("invalid label")
	ErrLabelTooLong   = errors.New("label too long")
	ErrInvalidID      = errors.New("invalid run id")
	ErrOutputTooLarge = errors.New("output too large")
)
