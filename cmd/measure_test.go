package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	env := newBareEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"format", "P0DT3H3M0S"}, "3 h 3 m"},
		{[]string{"format", "P0DT0H0M10S"}, "10 s"},
		{[]string{"format", "--nanos", "999"}, "999 ns"},
		{[]string{"format", "--nanos", "1000"}, "1 µs"},
		{[]string{"format", "--nanos", "2500000000"}, "2 s 500 ms"},
		{[]string{"format", "1h2m"}, "1 h 2 m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			env.equals(env.run(tt.args...), tt.want)
		})
	}
}

func TestEncode(t *testing.T) {
	env := newBareEnv(t)

	env.equals(env.run("encode", "--nanos", "90061000000000"), "P1DT1H1M1S")
	env.equals(env.run("encode", "90m"), "P0DT1H30M0S")
	env.equals(env.run("encode", "P1WT36H"), "P8DT12H0M0S")
	// Sub-second precision is dropped.
	env.equals(env.run("encode", "1.9s"), "P0DT0H0M1S")
}

func TestDecode(t *testing.T) {
	env := newBareEnv(t)

	env.equals(env.run("decode", "P1WT2H"), "170 h  P7DT2H0M0S")
	env.equals(env.run("decode", "P0DT"), "0 ns  P0DT0H0M0S")

	var m struct {
		Encoded string `json:"encoded"`
		Display string `json:"display"`
		Nanos   *int64 `json:"nanos"`
	}
	env.runJSON(&m, "decode", "P0DT0H1M30S")
	assert.Equal(t, "P0DT0H1M30S", m.Encoded)
	assert.Equal(t, "1 m 30 s", m.Display)
	require.NotNil(t, m.Nanos)
	assert.Equal(t, int64(90e9), *m.Nanos)
}

func TestDecode_Errors(t *testing.T) {
	env := newBareEnv(t)

	tests := []struct {
		in     string
		kind   string
		offset int
	}{
		{"1DT", "syntax", 0},
		{"P1D", "syntax", 3},
		{"P1X", "syntax", 2},
		{"P0DT99999999999999999999S", "parse_int", 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := env.runErr("decode", tt.in)
			assert.Error(t, err)
			assert.NotEmpty(t, out)

			var res struct {
				Error   string `json:"error"`
				Measure struct {
					Kind   string `json:"kind"`
					Offset *int   `json:"offset"`
				} `json:"measure"`
			}
			env.runJSON(&res, "decode", tt.in)
			assert.NotEmpty(t, res.Error)
			assert.Equal(t, tt.kind, res.Measure.Kind)
			require.NotNil(t, res.Measure.Offset)
			assert.Equal(t, tt.offset, *res.Measure.Offset)
		})
	}
}

func TestAddSub(t *testing.T) {
	env := newBareEnv(t)

	env.equals(env.run("add", "P0DT1H0M0S", "P0DT0H30M0S"), "1 h 30 m  P0DT1H30M0S")
	env.equals(env.run("sub", "P0DT1H", "P0DT2H"), "-1 h  P0DT-1H0M0S")
	env.equals(env.run("add", "--nanos", "1", "2"), "3 ns  P0DT0H0M0S")

	out, err := env.runErr("add", "P0DT0H0M9223372036854775S", "P0DT0H0M1S")
	assert.Error(t, err)
	env.contains(out, "overflow")

	var res struct {
		Measure struct {
			Kind string `json:"kind"`
		} `json:"measure"`
	}
	env.runJSON(&res, "add", "P0DT0H0M9223372036854775S", "P0DT0H0M1S")
	assert.Equal(t, "overflow", res.Measure.Kind)
}
