package ls_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/internal/ls"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *timing.Service {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	require.NoError(t, timing.Init(false, "", false, ""))
	svc, err := timing.New("")
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func seed(t *testing.T, svc *timing.Service) {
	t.Helper()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, secs := range []int{30, 90, 60} {
		r := &store.Run{
			Label:     "build",
			StartedAt: start.Add(time.Duration(i) * time.Hour),
			Elapsed:   measure.FromStd(time.Duration(secs) * time.Second),
		}
		require.NoError(t, svc.Record(context.Background(), r))
	}
}

func TestParseSort(t *testing.T) {
	o, err := ls.ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, store.OrderStarted, o)

	o, err = ls.ParseSort("elapsed")
	require.NoError(t, err)
	assert.Equal(t, store.OrderElapsed, o)

	_, err = ls.ParseSort("label")
	assert.ErrorContains(t, err, "invalid sort field")
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	seed(t, svc)
	ctx := context.Background()

	t.Run("no writer", func(t *testing.T) {
		runs, err := ls.Run(ctx, nil, svc, ls.Options{Filter: store.Filter{Order: store.OrderElapsed}})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "1 m 30 s", runs[0].Elapsed.String())
	})

	t.Run("list", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := ls.Run(ctx, &buf, svc, ls.Options{})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "build")
		assert.Contains(t, buf.String(), "1 m 30 s")
	})

	t.Run("trend", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := ls.Run(ctx, &buf, svc, ls.Options{Style: ls.StyleTrend})
		require.NoError(t, err)
		// Newest first: 60 s after 90 s, then 90 s after 30 s.
		assert.Contains(t, buf.String(), "-30 s")
		assert.Contains(t, buf.String(), "+1 m")
	})

	t.Run("trend needs start order", func(t *testing.T) {
		_, err := ls.Run(ctx, nil, svc, ls.Options{Style: ls.StyleTrend, Filter: store.Filter{Order: store.OrderElapsed}})
		assert.ErrorIs(t, err, ls.ErrTrendOrder)
	})
}
