package measure_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type record struct {
	Label   string              `json:"label" yaml:"label" cbor:"label"`
	Elapsed measure.Measurement `json:"elapsed" yaml:"elapsed" cbor:"elapsed"`
}

func TestJSON(t *testing.T) {
	in := record{Label: "build", Elapsed: measure.FromStd(90 * time.Second)}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"build","elapsed":"P0DT0H1M30S"}`, string(data))

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestJSON_InvalidElapsed(t *testing.T) {
	var out record
	err := json.Unmarshal([]byte(`{"elapsed":"P0DT0Z0M0S"}`), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, measure.ErrSyntax)
}

func TestYAML(t *testing.T) {
	in := record{Label: "test", Elapsed: measure.FromStd(3*time.Hour + 3*time.Minute)}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "label: test\nelapsed: P0DT3H3M0S\n", string(data))

	var out record
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestYAML_AcceptsWeeks(t *testing.T) {
	var out record
	require.NoError(t, yaml.Unmarshal([]byte("elapsed: P2WT\n"), &out))
	assert.Equal(t, measure.FromStd(14*24*time.Hour), out.Elapsed)
}

func TestCBOR(t *testing.T) {
	in := record{Label: "lint", Elapsed: measure.FromStd(26 * time.Hour)}

	data, err := cbor.Marshal(in)
	require.NoError(t, err)

	var out record
	require.NoError(t, cbor.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	// The value itself is a plain CBOR text string.
	raw, err := cbor.Marshal(in.Elapsed)
	require.NoError(t, err)
	var s string
	require.NoError(t, cbor.Unmarshal(raw, &s))
	assert.Equal(t, "P1DT2H0M0S", s)
}

func TestCBOR_NotAString(t *testing.T) {
	raw, err := cbor.Marshal(42)
	require.NoError(t, err)

	var m measure.Measurement
	assert.Error(t, cbor.Unmarshal(raw, &m))
}

func TestSQL(t *testing.T) {
	m := measure.FromStd(45 * time.Second)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "P0DT0H0M45S", v)

	var fromString, fromBytes, fromNull measure.Measurement
	require.NoError(t, fromString.Scan("P0DT0H0M45S"))
	require.NoError(t, fromBytes.Scan([]byte("P0DT0H0M45S")))
	require.NoError(t, fromNull.Scan(nil))
	assert.Equal(t, m, fromString)
	assert.Equal(t, m, fromBytes)
	assert.True(t, fromNull.IsZero())

	var bad measure.Measurement
	assert.Error(t, bad.Scan(int64(45)))
	assert.ErrorIs(t, bad.Scan("45s"), measure.ErrSyntax)
}
