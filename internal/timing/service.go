// Package timing implements service.Service: it runs and measures
// commands and keeps the resulting runs in the project's SQLite store.
package timing

import (
	"context"
	"database/sql"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/repo"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
)

var _ service.Service = (*Service)(nil)

// DefaultAuthor is recorded when neither the caller nor config names one.
const DefaultAuthor = "unknown"

// Service provides run operations backed by a SQLite store.
type Service struct {
	store  *store.SQLiteStore
	dbPath string
	cfg    *config.Config
	extCtx extension.Context // for firing events to extensions
}

// New opens the store found by walking up from the working directory.
// The db parameter selects a named database (empty for the default).
// Returns repo.ErrNotInitialised if no matching database exists.
func New(db string) (*Service, error) {
	return NewIn("", db)
}

// NewIn opens the store under dir/.stopwatch, skipping discovery. An empty
// dir behaves like New.
func NewIn(dir, db string) (*Service, error) {
	dbPath, err := repo.Locate(dir, db)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &Service{store: s, dbPath: dbPath, cfg: cfg}, nil
}

// Init creates a new store under dir (the working directory when empty).
// Shared databases are committed to git; others are gitignored.
func Init(force bool, db string, shared bool, dir string) error {
	return repo.Init(force, db, shared, dir)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// Config returns the configuration the service was opened with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// ReloadConfig re-reads configuration from disk.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// fireEvent notifies every registered EventHandler. Handler errors are
// logged and otherwise ignored.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Label(e.EventLabel()).
					Write(err)
			}
		}
	}
}

// author picks the recorded author: explicit, then config, then default.
func (s *Service) author(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if s.cfg != nil && s.cfg.Author.Name != "" {
		return s.cfg.Author.Name
	}
	return DefaultAuthor
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Tx runs fn within a database transaction.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.store.Tx(ctx, fn)
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}
