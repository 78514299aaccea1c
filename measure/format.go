package measure

import "strconv"

// scale is one display unit. scales is ordered finest first; a value is
// shown in the coarsest unit it reaches, with the next finer unit as the
// optional second chunk.
type scale struct {
	nanos uint64
	label string
}

var scales = []scale{
	{1, "ns"},
	{1_000, "µs"},
	{1_000_000, "ms"},
	{1_000_000_000, "s"},
	{60 * 1_000_000_000, "m"},
	{3600 * 1_000_000_000, "h"},
}

// Format renders m in at most two units, e.g. "999 ns", "1 µs", "3 h 3 m",
// "10 h". Finer units are dropped, not rounded. Negative spans get a
// leading "-". When the span has no int64 nanosecond count the result is
// the literal "overflow": display never fails.
func Format(m Measurement) string {
	n, ok := m.d.Nanoseconds()
	if !ok {
		return "overflow"
	}
	if n < 0 {
		return "-" + formatNanos(-uint64(n))
	}
	return formatNanos(uint64(n))
}

func formatNanos(n uint64) string {
	i := len(scales) - 1
	for i > 0 && n < scales[i].nanos {
		i--
	}
	primary := n / scales[i].nanos
	s := strconv.FormatUint(primary, 10) + " " + scales[i].label
	if i == 0 {
		return s
	}
	if secondary := n % scales[i].nanos / scales[i-1].nanos; secondary > 0 {
		s += " " + strconv.FormatUint(secondary, 10) + " " + scales[i-1].label
	}
	return s
}
