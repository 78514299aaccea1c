// Package duration provides the signed time span that measurements wrap.
//
// A Duration is a whole number of seconds plus a non-negative nanosecond
// fraction. Unlike time.Duration it can hold spans whose nanosecond count
// does not fit in an int64: the range is +/- math.MaxInt64 milliseconds,
// roughly 292 million years either way. Every operation that could leave
// that range is checked.
package duration

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrOutOfRange is returned when a span cannot be represented.
var ErrOutOfRange = errors.New("duration out of range")

const (
	nanosPerSec  = 1_000_000_000
	secsPerMin   = 60
	secsPerHour  = 60 * secsPerMin
	secsPerDay   = 24 * secsPerHour
	secsPerWeek  = 7 * secsPerDay
	maxMillis    = math.MaxInt64
	maxSecs      = maxMillis / 1000
	maxSubNanos  = maxMillis % 1000 * 1_000_000
	minSecs      = -maxSecs - 1
	minSubNanos  = nanosPerSec - maxSubNanos
	stdSaturated = time.Duration(math.MaxInt64)
)

// Duration is an immutable signed time span with nanosecond resolution.
// The zero value is a zero-length span. Durations are comparable with ==.
type Duration struct {
	secs  int64
	nanos int32 // always in [0, nanosPerSec)
}

// Range limits and the additive identity.
var (
	Zero = Duration{}
	Max  = Duration{secs: maxSecs, nanos: maxSubNanos}
	Min  = Duration{secs: minSecs, nanos: minSubNanos}
)

// Unit is a fixed-length time unit. Calendar units (months, years) are
// deliberately absent: their length depends on a date.
type Unit uint8

const (
	Nanosecond Unit = iota
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
)

// unitInfo describes how a count of a unit maps onto (secs, nanos).
// Sub-second units set perSec; whole-second units set secs.
type unitInfo struct {
	name   string
	perSec int64 // units per second (sub-second units only)
	nanos  int64 // nanoseconds per unit (sub-second units only)
	secs   int64 // seconds per unit (whole-second units only)
}

var units = [...]unitInfo{
	Nanosecond:  {name: "nanosecond", perSec: 1_000_000_000, nanos: 1},
	Microsecond: {name: "microsecond", perSec: 1_000_000, nanos: 1_000},
	Millisecond: {name: "millisecond", perSec: 1_000, nanos: 1_000_000},
	Second:      {name: "second", secs: 1},
	Minute:      {name: "minute", secs: secsPerMin},
	Hour:        {name: "hour", secs: secsPerHour},
	Day:         {name: "day", secs: secsPerDay},
	Week:        {name: "week", secs: secsPerWeek},
}

// String returns the unit's singular name.
func (u Unit) String() string {
	if int(u) < len(units) {
		return units[u].name
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// Of returns n units as a Duration, or ErrOutOfRange if the result does
// not fit. The conversion is exact.
func Of(n int64, u Unit) (Duration, error) {
	if int(u) >= len(units) {
		return Zero, fmt.Errorf("unknown unit %d", uint8(u))
	}
	info := units[u]
	if info.secs == 0 {
		return checked(normalize(n/info.perSec, n%info.perSec*info.nanos))
	}
	if n > math.MaxInt64/info.secs || n < math.MinInt64/info.secs {
		return Zero, fmt.Errorf("%w: %d %ss", ErrOutOfRange, n, info.name)
	}
	d, err := checked(Duration{secs: n * info.secs})
	if err != nil {
		return Zero, fmt.Errorf("%w: %d %ss", ErrOutOfRange, n, info.name)
	}
	return d, nil
}

func must(d Duration, err error) Duration {
	if err != nil {
		panic("duration: " + err.Error())
	}
	return d
}

// Weeks returns n weeks. It panics if the result is out of range; use Of
// for untrusted input.
func Weeks(n int64) Duration { return must(Of(n, Week)) }

// Days returns n days. It panics if the result is out of range.
func Days(n int64) Duration { return must(Of(n, Day)) }

// Hours returns n hours. It panics if the result is out of range.
func Hours(n int64) Duration { return must(Of(n, Hour)) }

// Minutes returns n minutes. It panics if the result is out of range.
func Minutes(n int64) Duration { return must(Of(n, Minute)) }

// Seconds returns n seconds. It panics if the result is out of range.
func Seconds(n int64) Duration { return must(Of(n, Second)) }

// Milliseconds returns n milliseconds.
func Milliseconds(n int64) Duration { return must(Of(n, Millisecond)) }

// Microseconds returns n microseconds.
func Microseconds(n int64) Duration { return must(Of(n, Microsecond)) }

// Nanoseconds returns n nanoseconds.
func Nanoseconds(n int64) Duration { return must(Of(n, Nanosecond)) }

// normalize folds a nanosecond adjustment in (-2s, 2s) into secs so that
// the stored fraction is non-negative.
func normalize(secs, nanos int64) Duration {
	secs += nanos / nanosPerSec
	nanos %= nanosPerSec
	if nanos < 0 {
		secs--
		nanos += nanosPerSec
	}
	return Duration{secs: secs, nanos: int32(nanos)}
}

func checked(d Duration) (Duration, error) {
	if d.Compare(Max) > 0 || d.Compare(Min) < 0 {
		return Zero, ErrOutOfRange
	}
	return d, nil
}

// CheckedAdd returns d+o, or false if the sum is out of range.
func (d Duration) CheckedAdd(o Duration) (Duration, bool) {
	// |secs| never exceeds maxSecs+1, so the int64 sum cannot wrap.
	sum, err := checked(normalize(d.secs+o.secs, int64(d.nanos)+int64(o.nanos)))
	return sum, err == nil
}

// CheckedSub returns d-o, or false if the difference is out of range.
func (d Duration) CheckedSub(o Duration) (Duration, bool) {
	diff, err := checked(normalize(d.secs-o.secs, int64(d.nanos)-int64(o.nanos)))
	return diff, err == nil
}

// Neg returns -d. The range is symmetric, so Neg never fails.
func (d Duration) Neg() Duration {
	if d.nanos == 0 {
		return Duration{secs: -d.secs}
	}
	return Duration{secs: -d.secs - 1, nanos: nanosPerSec - d.nanos}
}

// Abs returns the magnitude of d.
func (d Duration) Abs() Duration {
	if d.IsNegative() {
		return d.Neg()
	}
	return d
}

// IsNegative reports whether d < 0.
func (d Duration) IsNegative() bool { return d.secs < 0 }

// IsZero reports whether d is the zero span.
func (d Duration) IsZero() bool { return d == Zero }

// Compare returns -1, 0 or +1 as d is shorter than, equal to or longer than o.
func (d Duration) Compare(o Duration) int {
	switch {
	case d.secs < o.secs:
		return -1
	case d.secs > o.secs:
		return 1
	case d.nanos < o.nanos:
		return -1
	case d.nanos > o.nanos:
		return 1
	}
	return 0
}

// Count returns the whole number of u in d, truncated toward zero. Counts
// of sub-second units saturate at the int64 limits.
func (d Duration) Count(u Unit) int64 {
	info := units[u]
	if info.secs != 0 {
		return d.NumSeconds() / info.secs
	}
	secs := d.NumSeconds()
	if secs > math.MaxInt64/info.perSec {
		return math.MaxInt64
	}
	if secs < math.MinInt64/info.perSec {
		return math.MinInt64
	}
	// whole and frac share the sign of d.
	whole, frac := secs*info.perSec, int64(d.SubsecNanos())/info.nanos
	if frac > 0 && whole > math.MaxInt64-frac {
		return math.MaxInt64
	}
	if frac < 0 && whole < math.MinInt64-frac {
		return math.MinInt64
	}
	return whole + frac
}

// NumSeconds returns the whole seconds in d, truncated toward zero.
func (d Duration) NumSeconds() int64 {
	if d.secs < 0 && d.nanos > 0 {
		return d.secs + 1
	}
	return d.secs
}

// SubsecNanos returns the fractional part of d in nanoseconds. It carries
// the sign of d, so NumSeconds()*1e9 + SubsecNanos() is the full count.
func (d Duration) SubsecNanos() int32 {
	if d.secs < 0 && d.nanos > 0 {
		return d.nanos - nanosPerSec
	}
	return d.nanos
}

// NumMinutes returns the whole minutes in d, truncated toward zero.
func (d Duration) NumMinutes() int64 { return d.Count(Minute) }

// NumHours returns the whole hours in d, truncated toward zero.
func (d Duration) NumHours() int64 { return d.Count(Hour) }

// NumDays returns the whole days in d, truncated toward zero.
func (d Duration) NumDays() int64 { return d.Count(Day) }

// NumWeeks returns the whole weeks in d, truncated toward zero.
func (d Duration) NumWeeks() int64 { return d.Count(Week) }

// Nanoseconds returns the total span in nanoseconds, or false when the
// count does not fit in an int64 (beyond roughly 292 years).
func (d Duration) Nanoseconds() (int64, bool) {
	secs, nanos := d.secs, int64(d.nanos)
	if secs < 0 && nanos > 0 {
		secs++
		nanos -= nanosPerSec
	}
	if secs > math.MaxInt64/nanosPerSec || secs < math.MinInt64/nanosPerSec {
		return 0, false
	}
	n := secs * nanosPerSec
	if (nanos > 0 && n > math.MaxInt64-nanos) || (nanos < 0 && n < math.MinInt64-nanos) {
		return 0, false
	}
	return n + nanos, true
}

// FromStd converts a time.Duration. Every time.Duration is in range.
func FromStd(td time.Duration) Duration {
	return normalize(int64(td/time.Second), int64(td%time.Second))
}

// Std converts d to a time.Duration, or false if it does not fit.
func (d Duration) Std() (time.Duration, bool) {
	n, ok := d.Nanoseconds()
	return time.Duration(n), ok
}

// Between returns post - pre. The monotonic clock reading is used when
// both times carry one and the span fits a time.Duration; otherwise the
// wall-clock difference is computed exactly. The result saturates at Min
// and Max.
func Between(pre, post time.Time) Duration {
	if td := post.Sub(pre); td != stdSaturated && td != -stdSaturated-1 {
		return FromStd(td)
	}
	d := normalize(post.Unix()-pre.Unix(), int64(post.Nanosecond()-pre.Nanosecond()))
	switch {
	case d.Compare(Max) > 0:
		return Max
	case d.Compare(Min) < 0:
		return Min
	}
	return d
}

// String renders d as signed seconds with a nine digit fraction, for
// diagnostics. Use measure.Format for display.
func (d Duration) String() string {
	if d.IsNegative() {
		return "-" + d.Neg().String()
	}
	return fmt.Sprintf("%d.%09ds", d.secs, d.nanos)
}
