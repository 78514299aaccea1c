package store

import "time"

// SetNow replaces the store clock and returns a function restoring it.
func SetNow(f func() time.Time) (restore func()) {
	orig := now
	now = f
	return func() { now = orig }
}
