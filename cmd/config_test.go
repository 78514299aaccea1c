package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	env := newTestEnv(t)

	env.equals(env.run("config", "author.name"), "tester")

	out := env.run("config")
	env.contains(out, "author.name: tester")
	env.contains(out, "run.capture: true")

	out = env.run("config", "--global", "display.slow", "P0DT0H5M0S")
	env.contains(out, "display.slow = P0DT0H5M0S (global)")
	env.equals(env.run("config", "display.slow"), "P0DT0H5M0S")

	var all map[string]string
	env.runJSON(&all, "config")
	assert.Equal(t, "tester", all["author.name"])
}

func TestConfig_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("config", "no.such.key")
	assert.Error(t, err)

	_, err = env.runErr("config", "--global", "display.slow", "5m")
	assert.Error(t, err)

	_, err = env.runErr("config", "--global", "run.capture", "maybe")
	assert.Error(t, err)
}

func TestConfig_Local(t *testing.T) {
	env := newTestEnv(t)

	// A local file takes precedence over the global one.
	local := filepath.Join(env.dir, ".stopwatch", "config.yaml")
	assert.NoError(t, os.WriteFile(local, []byte("author:\n  name: local-author\n"), 0644))

	env.equals(env.run("config", "author.name"), "local-author")
	out := env.run("config", "run.capture", "false")
	env.contains(out, "(local)")
	env.equals(env.run("config", "--global", "author.name"), "tester")
}

func TestConfig_Capture(t *testing.T) {
	env := newTestEnv(t)
	env.run("config", "--global", "run.capture", "false")

	var r struct {
		ID string `json:"id"`
	}
	env.runJSON(&r, "run", "-l", "quiet", "--", "echo", "not kept")
	var full runJSON
	env.runJSON(&full, "show", r.ID, "--full")
	assert.Empty(t, full.Output)

	// --capture overrides the setting.
	env.runJSON(&r, "run", "--capture", "-l", "loud", "--", "echo", "kept")
	var loud runJSON
	env.runJSON(&loud, "show", r.ID, "--full")
	assert.Equal(t, "kept\n", loud.Output)
}

func TestConfig_NoRecord(t *testing.T) {
	env := newTestEnv(t)
	env.run("config", "--global", "run.record", "false")

	env.contains(env.run("run", "--", "true"), "not recorded")
}
