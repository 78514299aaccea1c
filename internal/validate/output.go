package validate

import "fmt"

// Output validates captured output size. maxLen <= 0 means no limit.
func Output(out string, maxLen int64) error {
	if maxLen > 0 && int64(len(out)) > maxLen {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrOutputTooLarge, len(out), maxLen)
	}
	return nil
}
