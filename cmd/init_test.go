package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	env := newBareEnv(t)

	out := env.run("init")
	env.contains(out, "Initialised stopwatch store in")
	env.contains(out, filepath.Join(".stopwatch", "stopwatch.db"))

	_, err := os.Stat(filepath.Join(env.dir, ".stopwatch", "stopwatch.db"))
	require.NoError(t, err)

	// Local databases are ignored by git.
	gitignore, err := os.ReadFile(filepath.Join(env.dir, ".stopwatch", ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "*.db")
	assert.NotContains(t, string(gitignore), "!stopwatch.db")
}

func TestInit_AlreadyInitialised(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("init")
	assert.Error(t, err)

	env.run("init", "--force")
}

func TestInit_Shared(t *testing.T) {
	env := newBareEnv(t)
	env.run("init", "--share")

	gitignore, err := os.ReadFile(filepath.Join(env.dir, ".stopwatch", ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "!stopwatch.db")
}

func TestInit_NamedDB(t *testing.T) {
	env := newBareEnv(t)
	env.run("init", "--db", "ci")

	_, err := os.Stat(filepath.Join(env.dir, ".stopwatch", "stopwatch-ci.db"))
	require.NoError(t, err)
}

func TestUninitialised(t *testing.T) {
	env := newBareEnv(t)

	out, err := env.runErr("ls")
	assert.Error(t, err)
	env.contains(out, "not initialised")

	// Storeless commands still work.
	env.equals(env.run("format", "P0DT3H3M0S"), "3 h 3 m")
}
