package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGet_BuildAge(t *testing.T) {
	origTime, origNow := BuildTime, now
	t.Cleanup(func() { BuildTime, now = origTime, origNow })

	BuildTime = "2026-01-15T10:30:00Z"
	now = func() time.Time { return time.Date(2026, 1, 15, 13, 33, 0, 0, time.UTC) }

	i := Get()
	assert.Equal(t, "P0DT3H3M0S", i.BuildAge)
	assert.Contains(t, i.String(), "2026-01-15T10:30:00Z (3 h 3 m ago)")
}

func TestGet_UnknownBuildTime(t *testing.T) {
	origTime := BuildTime
	t.Cleanup(func() { BuildTime = origTime })
	BuildTime = "unknown"

	i := Get()
	assert.Empty(t, i.BuildAge)
	assert.Contains(t, i.String(), "Build Time:   unknown\n")
	assert.Equal(t, Version, Short())
}
