// id.go implements run ID validation for records that arrive with an ID,
// such as archive imports. New runs get a generated UUID and are not
// checked.

package validate

import (
	"fmt"

	"github.com/google/uuid"
)

// ID validates a full run ID: a UUID in canonical hyphenated form.
func ID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidID, id, err)
	}
	if u.String() != id {
		return fmt.Errorf("%w: %q is not in canonical lower-case form", ErrInvalidID, id)
	}
	return nil
}
