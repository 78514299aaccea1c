package timing_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/internal/runner"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService initialises a store in a temp directory and opens it.
func setupService(t *testing.T) *timing.Service {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	require.NoError(t, timing.Init(true, "", false, ""), "init store")

	svc, err := timing.New("")
	require.NoError(t, err, "opening service")
	t.Cleanup(func() { svc.Close() })
	return svc
}

func sample(label string, secs int64, exit int) *store.Run {
	return &store.Run{
		Label:     label,
		Command:   label + " --flag",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   measure.From(duration.Seconds(secs)),
		ExitCode:  exit,
		Output:    label + " output\n",
	}
}

func TestService_RecordResolve(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	r := sample("build", 183*60, 0)
	require.NoError(t, svc.Record(ctx, r))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, timing.DefaultAuthor, r.Author)

	got, err := svc.Resolve(ctx, r.ID[:store.MinPrefixLen], false)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "3 h 3 m", got.Elapsed.String())

	_, err = svc.Resolve(ctx, "ffffffff", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_AuthorFromConfig(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cfg := svc.Config()
	require.NoError(t, cfg.Set("author.name", "alice"))
	require.NoError(t, cfg.SaveScope(config.ScopeGlobal))
	require.NoError(t, svc.ReloadConfig())

	r := sample("lint", 1, 0)
	require.NoError(t, svc.Record(ctx, r))
	assert.Equal(t, "alice", r.Author)

	r2 := sample("lint", 1, 0)
	r2.Author = "bob"
	require.NoError(t, svc.Record(ctx, r2))
	assert.Equal(t, "bob", r2.Author)
}

func TestService_DeleteRestore(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	r := sample("test", 5, 1)
	require.NoError(t, svc.Record(ctx, r))

	deleted, err := svc.Delete(ctx, r.Short())
	require.NoError(t, err)
	assert.Equal(t, r.ID, deleted.ID)

	_, err = svc.Get(ctx, r.ID, false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err := svc.CountDeleted(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	restored, err := svc.Restore(ctx, r.Short())
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	_, err = svc.Get(ctx, r.ID, false)
	assert.NoError(t, err)
}

func TestService_DeleteLabelVacuum(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, svc.Record(ctx, sample("bench", 2, 0)))
	}
	require.NoError(t, svc.Record(ctx, sample("keep", 2, 0)))

	n, err := svc.DeleteLabel(ctx, "bench")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// Deleted just now, so an age threshold keeps them.
	week := measure.From(duration.Weeks(1))
	purged, err := svc.Vacuum(ctx, &week, "")
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = svc.Vacuum(ctx, nil, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)

	runs, err := svc.List(ctx, store.Filter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].Label)
}

func TestService_ListUsesHistoryLimit(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cfg := svc.Config()
	require.NoError(t, cfg.Set("history.limit", "2"))
	require.NoError(t, cfg.SaveScope(config.ScopeGlobal))
	require.NoError(t, svc.ReloadConfig())

	for range 4 {
		require.NoError(t, svc.Record(ctx, sample("x", 1, 0)))
	}

	runs, err := svc.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = svc.List(ctx, store.Filter{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestService_Stats(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, sample("ci", 60, 0)))
	require.NoError(t, svc.Record(ctx, sample("ci", 120, 1)))

	st, err := svc.Stats(ctx, "ci")
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Count)
	assert.EqualValues(t, 1, st.Failures)
	assert.Equal(t, "3 m", st.Total.String())
	assert.Equal(t, "1 m 30 s", st.Mean.String())
}

func TestService_StatsOverflow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for range 2 {
		r := sample("huge", 0, 0)
		r.Elapsed = measure.From(duration.Max)
		require.NoError(t, svc.Record(ctx, r))
	}

	_, err := svc.Stats(ctx, "huge")
	assert.ErrorIs(t, err, measure.ErrOverflow)
}

func TestService_Compare(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	a := sample("build", 60, 0)
	b := sample("build", 90, 0)
	b.Output = "build output\nwarning\n"
	require.NoError(t, svc.Record(ctx, a))
	require.NoError(t, svc.Record(ctx, b))

	c, err := svc.Compare(ctx, a.Short(), b.Short(), diff.Options{})
	require.NoError(t, err)
	assert.Equal(t, "30 s", c.Delta.String())
	assert.Contains(t, c.Diff, "+ warning")

	c, err = svc.Compare(ctx, b.Short(), a.Short(), diff.Options{ElapsedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "-30 s", c.Delta.String())
	assert.Empty(t, c.Diff)
}

func TestService_Time(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	svc := setupService(t)
	ctx := context.Background()

	r, err := svc.Time(ctx, runner.Spec{Name: "echo hi; exit 2", Shell: true, Capture: true},
		service.RunOptions{Record: true})
	require.NoError(t, err)
	assert.Equal(t, "echo", r.Label)
	assert.Equal(t, "echo hi; exit 2", r.Command)
	assert.Equal(t, 2, r.ExitCode)
	assert.True(t, r.Failed())
	assert.Equal(t, "hi\n", r.Output)

	got, err := svc.Get(ctx, r.ID, false)
	require.NoError(t, err)
	assert.Equal(t, r.Elapsed, got.Elapsed)

	unrecorded, err := svc.Time(ctx, runner.Spec{Name: "true"}, service.RunOptions{Label: "noop"})
	require.NoError(t, err)
	assert.Empty(t, unrecorded.ID)
	assert.Equal(t, "noop", unrecorded.Label)

	_, err = svc.Time(ctx, runner.Spec{Name: "stopwatch-no-such-binary"}, service.RunOptions{Record: true})
	assert.ErrorIs(t, err, runner.ErrStart)
}

func TestDefaultLabel(t *testing.T) {
	tests := map[string]runner.Spec{
		"make": {Name: "/usr/bin/make", Args: []string{"-j4"}},
		"go":   {Name: "go test ./...", Shell: true},
		"run":  {},
	}
	for want, spec := range tests {
		assert.Equal(t, want, timing.DefaultLabel(spec))
	}
}

// recorder collects events fired by the service.
type recorder struct {
	mu     sync.Mutex
	events []extension.Event
}

func (r *recorder) Name() string                  { return "test-recorder" }
func (r *recorder) Commands() []*cobra.Command    { return nil }
func (r *recorder) MCPTools() []extension.MCPTool { return nil }

func (r *recorder) HandleEvent(_ extension.Context, e extension.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

var events = &recorder{}

func init() { extension.Register(events) }

func TestService_Events(t *testing.T) {
	svc := setupService(t)
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), svc.Config()))
	ctx := context.Background()

	events.mu.Lock()
	events.events = nil
	events.mu.Unlock()

	r := sample("evt", 1, 0)
	require.NoError(t, svc.Record(ctx, r))
	_, err := svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	_, err = svc.Restore(ctx, r.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	_, err = svc.Vacuum(ctx, nil, "")
	require.NoError(t, err)

	events.mu.Lock()
	defer events.mu.Unlock()
	var types []extension.EventType
	for _, e := range events.events {
		types = append(types, e.EventType())
		if e.EventType() != extension.EventVacuum {
			assert.Equal(t, "evt", e.EventLabel())
		}
	}
	assert.Equal(t, []extension.EventType{
		extension.EventRunRecord,
		extension.EventRunDelete,
		extension.EventRunRestore,
		extension.EventRunDelete,
		extension.EventVacuum,
	}, types)
}

