package measure

import "time"

// now is the clock used by Time and TimeErr. Tests replace it.
var now = time.Now

// Time runs fn and returns its result with the wall-clock time it took.
func Time[T any](fn func() T) (T, Measurement) {
	pre := now()
	v := fn()
	return v, Between(pre, now())
}

// TimeErr is Time for functions that can fail. The measurement is
// returned even when fn returns an error.
func TimeErr[T any](fn func() (T, error)) (T, Measurement, error) {
	pre := now()
	v, err := fn()
	return v, Between(pre, now()), err
}
