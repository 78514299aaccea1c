// Package extension is the command-group architecture for stopwatch. Each
// extension contributes cobra commands and MCP tools and registers itself
// from init(); cmd wires whatever has been registered.
package extension

import (
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

// Extension defines the contract for stopwatch extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions receive the Context once the store is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is implemented by extensions whose commands must run without
// an initialised store: init itself, and pure measurement utilities such
// as encode and decode. Listed command names skip store setup in
// PersistentPreRunE.
type Storeless interface {
	NoStoreCommands() []string
}

// Vacuumable extensions keep their own soft-deleted records and purge them
// when the vacuum command runs, after the runs table has been vacuumed.
type Vacuumable interface {
	Extension
	// Vacuum permanently deletes soft-deleted records deleted more than
	// olderThan ago, or all of them when olderThan is nil.
	Vacuum(ctx Context, olderThan *measure.Measurement) (int64, error)
}
