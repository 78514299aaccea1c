// Package measure provides Measurement, an immutable elapsed wall-clock
// time used to time units of work.
//
// A Measurement supports checked arithmetic that reports Overflow and
// Underflow instead of wrapping, a two-unit human-readable rendering
// ("3 h 3 m"), and a lossless-to-the-second textual encoding in a
// restricted ISO-8601 duration form ("P0DT3H3M0S").
//
//	m, err := measure.Decode("P0DT3H3M0S")
//	if err != nil {
//		return err
//	}
//	fmt.Println(m)                 // 3 h 3 m
//	fmt.Println(measure.Encode(m)) // P0DT3H3M0S
//
// All functions are pure and safe for concurrent use.
package measure

import (
	"time"

	"github.com/jpl-au/stopwatch/duration"
)

// Measurement is an elapsed span of time. The zero value is Zero().
// Measurements are comparable: == is structural equality.
type Measurement struct {
	d duration.Duration
}

// Zero returns the additive identity.
func Zero() Measurement { return Measurement{} }

// From wraps a duration.
func From(d duration.Duration) Measurement { return Measurement{d: d} }

// FromStd wraps a time.Duration.
func FromStd(d time.Duration) Measurement { return Measurement{d: duration.FromStd(d)} }

// Between returns the time elapsed from pre to post.
func Between(pre, post time.Time) Measurement {
	return Measurement{d: duration.Between(pre, post)}
}

// Duration returns the wrapped span.
func (m Measurement) Duration() duration.Duration { return m.d }

// Nanoseconds returns the span in nanoseconds, or false if it does not
// fit in an int64.
func (m Measurement) Nanoseconds() (int64, bool) { return m.d.Nanoseconds() }

// Add returns m+o, or ErrOverflow if the sum is out of range.
func (m Measurement) Add(o Measurement) (Measurement, error) {
	sum, ok := m.d.CheckedAdd(o.d)
	if !ok {
		return Zero(), ErrOverflow
	}
	return Measurement{d: sum}, nil
}

// Sub returns m-o, or ErrUnderflow if the difference is out of range.
func (m Measurement) Sub(o Measurement) (Measurement, error) {
	diff, ok := m.d.CheckedSub(o.d)
	if !ok {
		return Zero(), ErrUnderflow
	}
	return Measurement{d: diff}, nil
}

// Compare returns -1, 0 or +1 as m is shorter than, equal to or longer than o.
func (m Measurement) Compare(o Measurement) int { return m.d.Compare(o.d) }

// Less reports whether m is shorter than o.
func (m Measurement) Less(o Measurement) bool { return m.d.Compare(o.d) < 0 }

// IsZero reports whether m is Zero().
func (m Measurement) IsZero() bool { return m.d.IsZero() }

// IsNegative reports whether m is a negative span.
func (m Measurement) IsNegative() bool { return m.d.IsNegative() }

// String renders m with Format.
func (m Measurement) String() string { return Format(m) }
