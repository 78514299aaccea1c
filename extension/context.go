// context.go defines what an extension may reach once the store is open.
//
// Extensions register before the service exists and receive a Context in
// Init, so the surface stays an interface and tests can supply their own.

package extension

import (
	"database/sql"

	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/service"
)

// Context provides extensions controlled access to stopwatch internals.
type Context interface {
	// Service returns the run service.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify runs.
	DB() *sql.DB

	// Config returns the merged user configuration.
	Config() *config.Config
}

type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

func (c *extContext) Service() service.Service { return c.svc }

func (c *extContext) DB() *sql.DB { return c.db }

func (c *extContext) Config() *config.Config { return c.cfg }
