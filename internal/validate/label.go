// label.go implements run label validation.
//
// Labels are free-form grouping keys. Only inputs that break listings or
// storage are rejected.

package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLabelLen bounds labels so list columns stay readable.
const MaxLabelLen = 200

// Label validates a run label.
//
// Validation rules:
//   - Empty or all-whitespace labels rejected
//   - Control characters rejected (a newline would split a list row)
//   - Length capped at MaxLabelLen bytes
func Label(l string) error {
	if strings.TrimSpace(l) == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	if i := strings.IndexFunc(l, unicode.IsControl); i >= 0 {
		return fmt.Errorf("%w: control character at byte %d", ErrInvalidLabel, i)
	}
	if len(l) > MaxLabelLen {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrLabelTooLong, len(l), MaxLabelLen)
	}
	return nil
}
