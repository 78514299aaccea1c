// Package all imports all built-in stopwatch extensions.
// Import this package to register every command.
package all

import (
	// Each registers itself via init()
	_ "github.com/jpl-au/stopwatch/extension/core"
	_ "github.com/jpl-au/stopwatch/extension/measure"
	_ "github.com/jpl-au/stopwatch/extension/timing"
)
