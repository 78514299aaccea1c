package duration

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		unit Unit
		secs int64
		sub  int32
	}{
		{"week", 1, Week, 604800, 0},
		{"days", 2, Day, 172800, 0},
		{"hours", 3, Hour, 10800, 0},
		{"minutes", -3, Minute, -180, 0},
		{"seconds", 59, Second, 59, 0},
		{"millis", 1500, Millisecond, 1, 500_000_000},
		{"micros", -1, Microsecond, 0, -1_000},
		{"nanos", 999, Nanosecond, 0, 999},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Of(tc.n, tc.unit)
			require.NoError(t, err)
			assert.Equal(t, tc.secs, d.NumSeconds())
			assert.Equal(t, tc.sub, d.SubsecNanos())
		})
	}
}

func TestOf_OutOfRange(t *testing.T) {
	_, err := Of(math.MaxInt64, Week)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Of(maxSecs/secsPerDay+1, Day)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Of(math.MinInt64, Millisecond)
	assert.ErrorIs(t, err, ErrOutOfRange)

	d, err := Of(math.MaxInt64, Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Max, d)
}

func TestWeekIsSevenDays(t *testing.T) {
	assert.Equal(t, Days(7), Weeks(1))
	assert.Equal(t, int64(1), Days(13).NumWeeks())
}

func TestConstructorsPanic(t *testing.T) {
	assert.Panics(t, func() { Weeks(math.MaxInt64) })
	assert.NotPanics(t, func() { Nanoseconds(math.MinInt64) })
}

func TestCheckedAdd(t *testing.T) {
	sum, ok := Hours(3).CheckedAdd(Minutes(3))
	require.True(t, ok)
	assert.Equal(t, int64(3*3600+180), sum.NumSeconds())

	sum, ok = Milliseconds(700).CheckedAdd(Milliseconds(600))
	require.True(t, ok)
	assert.Equal(t, Milliseconds(1300), sum)

	_, ok = Max.CheckedAdd(Nanoseconds(1))
	assert.False(t, ok)

	sum, ok = Max.CheckedAdd(Min)
	require.True(t, ok)
	assert.True(t, sum.IsZero())
}

func TestCheckedSub(t *testing.T) {
	diff, ok := Seconds(1).CheckedSub(Milliseconds(1500))
	require.True(t, ok)
	assert.Equal(t, Milliseconds(-500), diff)
	assert.True(t, diff.IsNegative())

	_, ok = Min.CheckedSub(Nanoseconds(1))
	assert.False(t, ok)
}

func TestNeg(t *testing.T) {
	assert.Equal(t, Max, Min.Neg())
	assert.Equal(t, Min, Max.Neg())
	assert.Equal(t, Milliseconds(-1), Milliseconds(1).Neg())
	assert.Equal(t, Zero, Zero.Neg())
	assert.Equal(t, Seconds(5), Seconds(-5).Abs())
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Nanoseconds(1).Compare(Nanoseconds(2)))
	assert.Equal(t, 1, Seconds(1).Compare(Nanoseconds(999_999_999)))
	assert.Equal(t, 0, Minutes(1).Compare(Seconds(60)))
	assert.Equal(t, -1, Min.Compare(Max))
}

func TestNanoseconds(t *testing.T) {
	n, ok := Seconds(2).Nanoseconds()
	require.True(t, ok)
	assert.Equal(t, int64(2_000_000_000), n)

	n, ok = Nanoseconds(-1500).Nanoseconds()
	require.True(t, ok)
	assert.Equal(t, int64(-1500), n)

	n, ok = Nanoseconds(math.MinInt64).Nanoseconds()
	require.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), n)

	n, ok = Nanoseconds(math.MaxInt64).Nanoseconds()
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), n)

	_, ok = Days(365 * 300).Nanoseconds()
	assert.False(t, ok)

	_, ok = Max.Nanoseconds()
	assert.False(t, ok)
}

func TestStdInterop(t *testing.T) {
	d := FromStd(-1500 * time.Millisecond)
	assert.Equal(t, Milliseconds(-1500), d)

	td, ok := d.Std()
	require.True(t, ok)
	assert.Equal(t, -1500*time.Millisecond, td)

	_, ok = Weeks(100_000).Std()
	assert.False(t, ok)
}

func TestBetween(t *testing.T) {
	pre := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	post := pre.Add(3*time.Hour + 250*time.Millisecond)
	assert.Equal(t, FromStd(3*time.Hour+250*time.Millisecond), Between(pre, post))
	assert.Equal(t, FromStd(-3*time.Hour-250*time.Millisecond), Between(post, pre))

	// Beyond time.Duration's range the wall-clock path is used.
	far := time.Date(2526, 1, 1, 0, 0, 0, 5, time.UTC)
	d := Between(pre, far)
	assert.Equal(t, far.Unix()-pre.Unix(), d.NumSeconds())
	assert.Equal(t, int32(5), d.SubsecNanos())
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.500000000s", Milliseconds(1500).String())
	assert.Equal(t, "-0.000000001s", Nanoseconds(-1).String())
	assert.Equal(t, "week", Week.String())
}

func TestCount(t *testing.T) {
	d := Days(1).Abs()
	d, _ = d.CheckedAdd(Hours(3))
	assert.Equal(t, int64(27), d.Count(Hour))
	assert.Equal(t, int64(1), d.Count(Day))
	assert.Equal(t, int64(-27), d.Neg().Count(Hour))
	assert.Equal(t, int64(1500), Microseconds(1_500_999).Count(Millisecond))
	assert.Equal(t, int64(-1500), Microseconds(-1_500_999).Count(Millisecond))
	assert.Equal(t, int64(math.MaxInt64), Max.Count(Nanosecond))
	assert.Equal(t, int64(math.MinInt64), Min.Count(Microsecond))
}
