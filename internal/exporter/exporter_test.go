package exporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/internal/exporter"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/timing"
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

func sampleRun() *store.Run {
	return &store.Run{
		ID:        "0f6c2c8e-6c1b-4d7e-9a55-2f0d6b1f9e01",
		Label:     "build",
		Command:   "make all",
		StartedAt: time.Date(2026, 5, 4, 3, 2, 1, 500, time.UTC),
		Elapsed:   measure.From(duration.Milliseconds(10_983_250)),
		ExitCode:  2,
		Output:    "compiling\n",
		Author:    "alice",
		CreatedAt: 1780000000,
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]exporter.Format{
		"json": exporter.FormatJSON,
		"YAML": exporter.FormatYAML,
		"yml":  exporter.FormatYAML,
		"cbor": exporter.FormatCBOR,
	} {
		got, err := exporter.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := exporter.ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, exporter.FormatYAML, exporter.FormatFromPath("runs.yml"))
	assert.Equal(t, exporter.FormatCBOR, exporter.FormatFromPath("runs.CBOR"))
	assert.Equal(t, exporter.FormatJSON, exporter.FormatFromPath("runs"))
}

func TestRecord_RoundTrip(t *testing.T) {
	r := sampleRun()
	rec := exporter.NewRecord(r, true)
	assert.Equal(t, "P0DT3H3M3S", rec.Elapsed)
	require.NotNil(t, rec.ElapsedNS)
	assert.EqualValues(t, 10_983_250_000_000, *rec.ElapsedNS)

	got, err := rec.Run()
	require.NoError(t, err)
	assert.Equal(t, r.Elapsed, got.Elapsed, "sub-second precision survives via elapsed_ns")
	assert.True(t, r.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, r.Output, got.Output)

	assert.Empty(t, exporter.NewRecord(r, false).Output)
}

func TestRecord_Invalid(t *testing.T) {
	rec := exporter.NewRecord(sampleRun(), false)

	bad := rec
	bad.Elapsed = "P0DT3X"
	_, err := bad.Run()
	var me *measure.Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, measure.KindSyntax, me.Kind)
	assert.Equal(t, 5, me.Offset)

	mismatch := rec
	n := int64(1)
	mismatch.ElapsedNS = &n
	_, err = mismatch.Run()
	assert.ErrorContains(t, err, "disagrees")

	// Truncates to P0DT0H0M0S, so only the sign gives it away.
	negative := rec
	negative.Elapsed = "P0DT0H0M0S"
	ns := int64(-500_000_000)
	negative.ElapsedNS = &ns
	_, err = negative.Run()
	assert.ErrorIs(t, err, exporter.ErrNegativeElapsed)

	noLabel := rec
	noLabel.Label = ""
	_, err = noLabel.Run()
	assert.ErrorContains(t, err, "label")
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	doc := &exporter.Document{
		Version:    exporter.ArchiveVersion,
		ExportedAt: "2026-05-04T00:00:00Z",
		Runs:       []exporter.Record{exporter.NewRecord(sampleRun(), true)},
	}
	for _, f := range exporter.Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, exporter.Encode(&buf, f, doc))
			got, err := exporter.Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestDecode_Version(t *testing.T) {
	_, err := exporter.Decode(bytes.NewBufferString(`{"version": 9, "runs": []}`), exporter.FormatJSON)
	assert.ErrorContains(t, err, "unsupported archive version 9")
}

func TestRun_Stdout(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, sampleRun()))

	var out bytes.Buffer
	res, err := exporter.Run(ctx, &out, svc, "-", exporter.Options{Format: exporter.FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Exported)
	assert.Empty(t, res.Path)

	var doc struct {
		Version int `json:"version"`
		Runs    []struct {
			Label   string `json:"label"`
			Elapsed string `json:"elapsed"`
			Output  string `json:"output"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 1, doc.Version)
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "build", doc.Runs[0].Label)
	assert.Equal(t, "P0DT3H3M3S", doc.Runs[0].Elapsed)
	assert.Empty(t, doc.Runs[0].Output, "output excluded by default")
}

func TestRun_File(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, sampleRun()))

	dst := filepath.Join(t.TempDir(), "out", "runs.yaml")
	var out bytes.Buffer
	res, err := exporter.Run(ctx, &out, svc, dst, exporter.Options{})
	require.NoError(t, err)
	assert.Equal(t, exporter.FormatYAML, res.Format)
	assert.Equal(t, "Exported 1 run(s) -> "+dst+"\n", out.String())

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "elapsed: P0DT3H3M3S")

	_, err = exporter.Run(ctx, &out, svc, dst, exporter.Options{})
	assert.ErrorContains(t, err, "file exists")

	_, err = exporter.Run(ctx, &out, svc, dst, exporter.Options{Force: true})
	assert.NoError(t, err)
}
