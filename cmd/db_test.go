package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "ci")

	out := env.run("db")
	env.contains(out, "stopwatch.db  local")
	env.contains(out, "stopwatch-ci.db  local")

	env.contains(env.run("db", "ci", "--share"), "stopwatch-ci.db: shared")
	env.contains(env.run("db", "ci"), "stopwatch-ci.db: shared")
	env.contains(env.run("db", "ci", "--unshare"), "stopwatch-ci.db: local")

	_, err := env.runErr("db", "ci", "-s", "-u")
	assert.Error(t, err)
}

func TestDB_Separate(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "ci")

	env.record("default", "true")
	env.run("--db", "ci", "run", "-l", "ci-only", "--", "true")

	var runs []runJSON
	env.runJSON(&runs, "--db", "ci", "ls")
	require.Len(t, runs, 1)
	assert.Equal(t, "ci-only", runs[0].Label)

	env.runJSON(&runs, "ls")
	require.Len(t, runs, 1)
	assert.Equal(t, "default", runs[0].Label)
}

func TestDir(t *testing.T) {
	env := newBareEnv(t)
	store := t.TempDir()

	env.run("init", "--dir", store)
	env.run("--dir", store, "run", "-l", "elsewhere", "--", "true")

	var runs []runJSON
	env.runJSON(&runs, "--dir", store, "ls")
	require.Len(t, runs, 1)

	// The working directory has no store of its own.
	_, err := env.runErr("ls")
	assert.Error(t, err)
}
