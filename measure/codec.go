// codec.go implements the textual duration encoding.
//
// Grammar:
//
//	Duration := "P" { Count Unit } "T" { Count Unit }
//	Count    := ASCII digits
//	Unit     := "W" | "D" | "H" | "M" | "S"
//
// Encode always writes the canonical form P<d>DT<h>H<m>M<s>S with every
// field present. Decode accepts any sequence of tokens on either side of
// the T, including weeks, and sums them with overflow checking. Fractional
// seconds are not part of the format: Encode truncates them.

package measure

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jpl-au/stopwatch/duration"
)

// countPattern matches the count at the front of a token. Compiled once,
// never mutated.
var countPattern = regexp.MustCompile(`^[0-9]+`)

// field is one component of the canonical encoding, coarsest first.
type field struct {
	unit   duration.Unit
	letter byte
	time   bool // belongs after the T separator
}

var canonical = []field{
	{duration.Day, 'D', false},
	{duration.Hour, 'H', true},
	{duration.Minute, 'M', true},
	{duration.Second, 'S', true},
}

// decodeUnits lists every unit letter Decode accepts.
var decodeUnits = map[rune]duration.Unit{
	'W': duration.Week,
	'D': duration.Day,
	'H': duration.Hour,
	'M': duration.Minute,
	'S': duration.Second,
}

// Encode returns the canonical encoding of m. Components are disjoint:
// each is extracted from what the coarser ones left over. Negative spans
// carry the sign on every non-zero component, e.g. "P-1DT-2H0M0S"; such
// strings do not decode.
func Encode(m Measurement) string {
	rest := m.d
	var b strings.Builder
	b.WriteByte('P')
	inTime := false
	for _, f := range canonical {
		if f.time && !inTime {
			b.WriteByte('T')
			inTime = true
		}
		n := rest.Count(f.unit)
		part, err := duration.Of(n, f.unit)
		if err == nil {
			// |part| <= |rest|, so the difference is always in range.
			rest, _ = rest.CheckedSub(part)
		}
		b.WriteString(strconv.FormatInt(n, 10))
		b.WriteByte(f.letter)
	}
	return b.String()
}

// Decode parses a textual duration. It never returns a partial result:
// any malformed prefix, count or unit letter fails the whole input.
func Decode(s string) (Measurement, error) {
	if !strings.HasPrefix(s, "P") {
		return Zero(), syntaxError(0, "missing leading 'P'")
	}
	dec := decoder{src: s, pos: 1}

	for dec.pos < len(s) && s[dec.pos] != 'T' {
		if err := dec.token(); err != nil {
			return Zero(), err
		}
	}
	if dec.pos >= len(s) {
		return Zero(), syntaxError(dec.pos, "missing 'T' separator")
	}
	dec.pos++

	for dec.pos < len(s) {
		if err := dec.token(); err != nil {
			return Zero(), err
		}
	}
	return dec.total, nil
}

// decoder holds the cursor and running total while parsing.
type decoder struct {
	src   string
	pos   int
	total Measurement
}

// token consumes one <digits><unit> pair and folds it into the total.
func (d *decoder) token() error {
	start := d.pos
	digits := countPattern.FindString(d.src[d.pos:])
	n, err := parseCount(digits, start)
	if err != nil {
		return err
	}
	d.pos += len(digits)

	if d.pos >= len(d.src) {
		return syntaxError(d.pos, "missing unit after %q", digits)
	}
	r, size := utf8.DecodeRuneInString(d.src[d.pos:])
	unit, ok := decodeUnits[r]
	if !ok {
		return syntaxError(d.pos, "unknown unit %q", r)
	}
	d.pos += size

	part, err := duration.Of(n, unit)
	if err != nil {
		return overflowAt(start)
	}
	sum, err := d.total.Add(From(part))
	if err != nil {
		return overflowAt(start)
	}
	d.total = sum
	return nil
}
