// Package repo provides repository initialisation and discovery for stopwatch.
//
// A stopwatch repository is a .stopwatch directory containing one or more
// SQLite run databases. This package handles:
//   - Initialising new repositories (creating .stopwatch/ and the database)
//   - Discovering existing repositories by walking up the directory tree
//   - Managing multiple named databases (stopwatch.db, stopwatch-ci.db, etc.)
//   - Controlling git visibility via .gitignore (timings are machine-local
//     by default; --shared databases are committed)
//
// Discovery mirrors git: starting from the current directory, walk up
// until a .stopwatch directory containing the target database is found, or
// the filesystem root is reached.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/stopwatch/internal/store"
)

const (
	// Dir is the directory name for the stopwatch repository.
	Dir = ".stopwatch"
	// DBFile is the default database filename.
	DBFile = "stopwatch.db"
	// dbPrefix starts every named database filename.
	dbPrefix = "stopwatch-"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "stopwatch.db".
// A name like "ci" returns "stopwatch-ci.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return dbPrefix + name + ".db"
}

// ErrNotInitialised is returned when no stopwatch repository is found.
var ErrNotInitialised = errors.New("stopwatch not initialised (run 'stopwatch init')")

// gitignoreTemplate is written on first init. Databases hold timings from
// one machine, so they are ignored unless explicitly shared.
const gitignoreTemplate = `# stopwatch - run timings are machine-specific
*.db
*.db-wal
*.db-shm
config.yaml
`

// Init initialises a new stopwatch repository.
//
// Like git init, Init only creates the database. Settings are managed via
// "stopwatch config".
//
// Parameters:
//   - force: reinitialise existing database (all runs are lost)
//   - db: database name (empty for default "stopwatch.db")
//   - shared: un-ignore the database so it is committed
//   - dir: target directory (empty for current directory)
func Init(force bool, db string, shared bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	swDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(swDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(swDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := s.Checkpoint(context.Background()); err != nil {
		return fmt.Errorf("checkpoint store: %w", err)
	}

	// Only create on first init so later inits keep shared markers.
	gitignore := filepath.Join(swDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte(gitignoreTemplate), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	if shared {
		if err := ShareDB(db, swDir); err != nil {
			return fmt.Errorf("share database: %w", err)
		}
	}
	return nil
}

// Discover walks up the directory tree looking for a .stopwatch database.
// The db parameter specifies which database to find (empty for default).
// Returns the full path to the database if found.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	return walkUp(func(dir string) (string, bool) {
		p := filepath.Join(dir, Dir, dbFile)
		_, err := os.Stat(p)
		return p, err == nil
	})
}

// Locate returns the database path under dir/.stopwatch, or discovers it
// by walking up from the working directory when dir is empty.
func Locate(dir, db string) (string, error) {
	if dir == "" {
		return Discover(db)
	}
	p := filepath.Join(dir, Dir, DBFileName(db))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInitialised, p)
	}
	return p, nil
}

// DiscoverDir finds the .stopwatch directory, walking up the tree.
// Returns the full path to the .stopwatch directory.
func DiscoverDir() (string, error) {
	return walkUp(func(dir string) (string, bool) {
		p := filepath.Join(dir, Dir)
		info, err := os.Stat(p)
		return p, err == nil && info.IsDir()
	})
}

// walkUp calls match on the working directory and each parent until it
// reports a hit.
func walkUp(match func(dir string) (string, bool)) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		if p, ok := match(dir); ok {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name   string // Short name (empty for default, "ci" for stopwatch-ci.db)
	File   string // Filename (stopwatch.db, stopwatch-ci.db)
	Path   string // Full path
	Shared bool   // True if committed to git
}

// ListDBs returns all databases in the .stopwatch directory with their status.
// If dir is empty, discovers .stopwatch directory from current working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover .stopwatch directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .stopwatch directory: %w", err)
	}

	var dbs []DBInfo
	for _, e := range entries {
		file := e.Name()
		if !strings.HasSuffix(file, ".db") {
			continue
		}

		var name string
		switch {
		case file == DBFile:
		case strings.HasPrefix(file, dbPrefix):
			name = strings.TrimSuffix(strings.TrimPrefix(file, dbPrefix), ".db")
		default:
			continue
		}

		// An unreadable .gitignore leaves the database local.
		shared, _ := IsShared(name, dir)
		dbs = append(dbs, DBInfo{
			Name:   name,
			File:   file,
			Path:   filepath.Join(dir, file),
			Shared: shared,
		})
	}
	return dbs, nil
}
