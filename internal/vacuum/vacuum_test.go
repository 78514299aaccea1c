package vacuum_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/jpl-au/stopwatch/internal/vacuum"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *timing.Service {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	require.NoError(t, timing.Init(false, "", false, ""))
	svc, err := timing.New("")
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func record(t *testing.T, svc *timing.Service, label string) *store.Run {
	t.Helper()
	r := &store.Run{Label: label, StartedAt: time.Now(), Elapsed: measure.From(duration.Seconds(3))}
	require.NoError(t, svc.Record(context.Background(), r))
	return r
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want measure.Measurement
	}{
		{"P7D", measure.From(duration.Days(7))},
		{"P2W", measure.From(duration.Weeks(2))},
		{"P1DT12H", measure.From(duration.Hours(36))},
		{"P0DT0H30M0S", measure.From(duration.Minutes(30))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := vacuum.ParseAge(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}

	_, err := vacuum.ParseAge("7d")
	assert.ErrorIs(t, err, measure.ErrSyntax)

	_, err = vacuum.ParseAge("P-1D")
	assert.ErrorIs(t, err, measure.ErrParseInt)
}

func TestRun_DryRunThenVacuum(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	gone := record(t, svc, "old")
	record(t, svc, "live")
	_, err := svc.Delete(ctx, gone.ID)
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := vacuum.Run(ctx, &out, svc, vacuum.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []string{gone.ID}, res.IDs)
	assert.Contains(t, out.String(), "Would delete: "+gone.Short()+" old (3 s")

	n, err := svc.CountDeleted(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "dry run must not delete")

	out.Reset()
	res, err = vacuum.Run(ctx, &out, svc, vacuum.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, "Vacuumed 1 run(s)\n", out.String())

	out.Reset()
	_, err = vacuum.Run(ctx, &out, svc, vacuum.Options{})
	require.NoError(t, err)
	assert.Equal(t, "No runs to vacuum\n", out.String())
}

func TestRun_OlderThanKeepsRecent(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	r := record(t, svc, "recent")
	_, err := svc.Delete(ctx, r.ID)
	require.NoError(t, err)

	age, err := vacuum.ParseAge("P1D")
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := vacuum.Run(ctx, &out, svc, vacuum.Options{OlderThan: age, DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)

	res, err = vacuum.Run(ctx, &out, svc, vacuum.Options{OlderThan: age})
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)

	// An age no clock can reach keeps everything.
	huge := measure.From(duration.Max)
	res, err = vacuum.Run(ctx, &out, svc, vacuum.Options{OlderThan: &huge, DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)
}
