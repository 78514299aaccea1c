// registry.go holds the global extension registry. Extensions register
// from init(), before main runs, so duplicates are programmer errors and
// panic in the manner of database/sql.Register. Registration order is kept
// so commands and MCP tools appear in a stable order.

package extension

import (
	"errors"
	"fmt"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string
)

// Register adds an extension to the registry. Called from init() functions.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns a snapshot of the registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Names returns the names of all registered extensions.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}

// StorelessCommands collects the command names every Storeless extension
// declares.
func StorelessCommands() []string {
	var names []string
	for _, ext := range All() {
		if s, ok := ext.(Storeless); ok {
			names = append(names, s.NoStoreCommands()...)
		}
	}
	return names
}

// InitAll calls Init on every Initializable extension. All of them are
// tried; the failures come back joined, each naming its extension.
func InitAll(ctx Context) error {
	var errs []error
	for _, ext := range All() {
		if init, ok := ext.(Initializable); ok {
			if err := init.Init(ctx); err != nil {
				errs = append(errs, fmt.Errorf("init extension %s: %w", ext.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
