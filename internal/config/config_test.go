package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	assert.True(t, c.Capture())
	assert.True(t, c.Record())
	assert.Equal(t, int64(DefaultMaxOutput), c.MaxOutput())
	assert.Equal(t, DefaultHistoryLimit, c.HistoryLimit())
	assert.True(t, c.Colour())
	_, ok := c.Slow()
	assert.False(t, ok)
}

func TestSetGet(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Set("author.name", "alice"))
	require.NoError(t, c.Set("run.capture", "FALSE"))
	require.NoError(t, c.Set("history.limit", "10"))
	require.NoError(t, c.Set("display.slow", "PT1M30S"))

	for key, want := range map[string]string{
		"author.name":   "alice",
		"run.capture":   "false",
		"history.limit": "10",
		"display.slow":  "P0DT0H1M30S",
	} {
		got, err := c.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
		assert.True(t, c.IsSet(key), key)
	}
	assert.False(t, c.IsSet("run.record"))

	slow, ok := c.Slow()
	require.True(t, ok)
	assert.Equal(t, measure.FromStd(90*time.Second), slow)
}

func TestSet_Invalid(t *testing.T) {
	c := &Config{}
	assert.ErrorIs(t, c.Set("run.capture", "yes"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("history.limit", "0"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("run.max_output", "-1"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("nope", "x"), ErrUnknownKey)

	err := c.Set("display.slow", "30s")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, measure.ErrSyntax)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSet_ClearSlow(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Set("display.slow", "PT5S"))
	require.NoError(t, c.Set("display.slow", ""))
	assert.False(t, c.IsSet("display.slow"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := &Config{path: path, scope: ScopeLocal}
	require.NoError(t, c.Set("author.email", "a@example.com"))
	require.NoError(t, c.Set("run.max_output", "2048"))
	require.NoError(t, c.Set("display.slow", "P1WT"))
	require.NoError(t, c.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slow: P7DT0H0M0S")

	loaded, err := loadPath(path, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, c.All(), loaded.All())
	assert.Equal(t, ScopeLocal, loaded.Scope())
}

func TestLoad_Missing(t *testing.T) {
	c, err := loadPath(filepath.Join(t.TempDir(), "absent.yaml"), ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, c.HistoryLimit())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("history:\n  limit: 0\n"), 0644))
	_, err := loadPath(bad, ScopeLocal)
	assert.ErrorIs(t, err, ErrInvalidValue)

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("display:\n  slow: 10 minutes\n"), 0644))
	_, err = loadPath(malformed, ScopeLocal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed config file")
}
