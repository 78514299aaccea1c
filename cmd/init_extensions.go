/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until first
// command execution, so they can declare commands before the store exists.
// The service is created once and shared across all extensions via the
// Context.

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/timing"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// authorRequiredCommands lists commands that remove or rewrite history.
// Recording a run falls back to the configured or default author instead.
var authorRequiredCommands = map[string]bool{
	"rm":      true,
	"restore": true,
	"import":  true,
	"vacuum":  true,
}

// buildNoStoreCommands creates the set of commands that skip store
// initialisation: bootstrap commands (init, guide, config, llm) and any
// command an extension declares through extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":   true,
		"guide":  true,
		"config": true,
		"llm":    true,
		"help":   true,
	}

	for _, name := range extension.StorelessCommands() {
		cmds[name] = true
	}
	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *timing.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions creates the run service and injects it into extensions.
// The service opens the database and sets WAL mode, so it is created at
// most once per process.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := timing.NewIn(Dir(), DB())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		// Project identifier for audit logging
		log.SetProject(filepath.Dir(svc.DBPath()))

		extContext = extension.NewContext(svc, svc.DB(), svc.Config())
		svc.SetExtensionContext(extContext)

		initErr = extension.InitAll(extContext)
	})
	return initErr
}

// Service returns the shared run service, or nil before initialisation.
func Service() *timing.Service { return extService }

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}
