package importer_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/internal/exporter"
	"github.com/jpl-au/stopwatch/internal/importer"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/jpl-au/stopwatch/internal/validate"
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

func exportAll(t *testing.T, svc *timing.Service, f exporter.Format) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs."+string(f))
	var out bytes.Buffer
	_, err := exporter.Run(context.Background(), &out, svc, path, exporter.Options{Output: true})
	require.NoError(t, err)
	return path
}

func TestRun_RoundTrip(t *testing.T) {
	for _, f := range exporter.Formats {
		t.Run(string(f), func(t *testing.T) {
			svc := setup(t)
			ctx := context.Background()

			orig := &store.Run{
				Label:     "deploy",
				StartedAt: time.Date(2026, 2, 2, 2, 2, 2, 2, time.UTC),
				Elapsed:   measure.From(duration.Milliseconds(1500)),
				Output:    "done\n",
			}
			require.NoError(t, svc.Record(ctx, orig))
			path := exportAll(t, svc, f)

			// Same IDs: everything is skipped.
			var out bytes.Buffer
			res, err := importer.Run(ctx, &out, svc, path, importer.Options{})
			require.NoError(t, err)
			assert.Zero(t, res.Imported)
			assert.Equal(t, 1, res.Skipped)
			assert.Contains(t, out.String(), "skipped 1 existing")

			// Fresh IDs: imported as a copy.
			out.Reset()
			res, err = importer.Run(ctx, &out, svc, path, importer.Options{NewIDs: true})
			require.NoError(t, err)
			require.Equal(t, 1, res.Imported)
			assert.NotEqual(t, orig.ID, res.IDs[0])

			got, err := svc.Get(ctx, res.IDs[0], false)
			require.NoError(t, err)
			assert.Equal(t, orig.Elapsed, got.Elapsed)
			assert.Equal(t, "done\n", got.Output)
			assert.True(t, orig.StartedAt.Equal(got.StartedAt))
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	src := `{"version":1,"runs":[{"id":"","label":"lint","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DT0H0M7S","exit_code":0,"created_at":0}]}`
	var out bytes.Buffer
	res, err := importer.Run(ctx, &out, svc, "-", importer.Options{DryRun: true, Stdin: strings.NewReader(src)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Would import: (new) lint (7 s)")
	assert.Len(t, res.IDs, 1)

	runs, err := svc.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRun_MalformedElapsed(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	src := `{"version":1,"runs":[
		{"label":"ok","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DT0H0M1S","created_at":0},
		{"label":"bad","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DTXH","created_at":0}
	]}`
	var out bytes.Buffer
	_, err := importer.Run(ctx, &out, svc, "-", importer.Options{Stdin: strings.NewReader(src)})
	require.Error(t, err)
	assert.ErrorContains(t, err, "record 1")
	assert.ErrorIs(t, err, &measure.Error{Kind: measure.KindParseInt, Int: measure.IntEmpty})

	me, ok := measure.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 4, me.Offset)

	runs, err := svc.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, runs, "nothing imported from an invalid archive")
}

func TestRun_AuthorFallback(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	src := "version: 1\nruns:\n  - label: bench\n    started_at: \"2026-01-01T00:00:00Z\"\n    elapsed: P1WT\n    created_at: 0\n"
	var out bytes.Buffer
	res, err := importer.Run(ctx, &out, svc, "-", importer.Options{
		Format: exporter.FormatYAML,
		Author: "importer",
		Stdin:  strings.NewReader(src),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	got, err := svc.Get(ctx, res.IDs[0], false)
	require.NoError(t, err)
	assert.Equal(t, "importer", got.Author)
	assert.Equal(t, measure.From(duration.Weeks(1)), got.Elapsed)
}

func TestRun_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		opts    importer.Options
		wantErr error
	}{
		{
			name:    "bad id",
			record:  `{"id":"run-1","label":"x","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DT0H0M1S"}`,
			wantErr: validate.ErrInvalidID,
		},
		{
			name:    "label with newline",
			record:  `{"label":"a\nb","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DT0H0M1S"}`,
			wantErr: validate.ErrInvalidLabel,
		},
		{
			name:    "output over limit",
			record:  `{"label":"x","started_at":"2026-01-01T00:00:00Z","elapsed":"P0DT0H0M1S","output":"12345"}`,
			opts:    importer.Options{MaxOutput: 4},
			wantErr: validate.ErrOutputTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setup(t)
			ctx := context.Background()

			opts := tt.opts
			opts.Stdin = strings.NewReader(`{"version":1,"runs":[` + tt.record + `]}`)
			var out bytes.Buffer
			_, err := importer.Run(ctx, &out, svc, "-", opts)
			assert.ErrorIs(t, err, tt.wantErr)

			runs, err := svc.List(ctx, store.Filter{})
			require.NoError(t, err)
			assert.Empty(t, runs)
		})
	}
}
