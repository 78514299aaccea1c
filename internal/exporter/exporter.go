// Package exporter writes recorded runs to a portable archive.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jpl-au/stopwatch/internal/progress"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
)

// now stamps Document.ExportedAt. Tests replace it.
var now = time.Now

// Options configures an export operation.
type Options struct {
	Format Format       // Empty picks from the destination extension
	Filter store.Filter // Which runs to export
	Output bool         // Include captured output
	Force  bool         // Overwrite an existing file
}

// Result contains the outcome of an export operation.
type Result struct {
	Exported int    // Number of runs exported
	Path     string // File written, empty for w
	Format   Format
}

// Run exports the runs selected by opts.Filter. An empty dst or "-"
// writes the archive to w; otherwise it is written to the file dst and a
// one-line summary goes to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, dst string, opts Options) (Result, error) {
	var result Result

	f := opts.Format
	if f == "" {
		f = FormatFromPath(dst)
	}
	result.Format = f

	filter := opts.Filter
	if filter.Limit == 0 {
		filter.Limit = -1
	}
	runs, err := svc.List(ctx, filter)
	if err != nil {
		return result, err
	}

	doc := &Document{
		Version:    ArchiveVersion,
		ExportedAt: now().UTC().Format(time.RFC3339),
		Runs:       make([]Record, 0, len(runs)),
	}

	prog := progress.New("Exporting", len(runs))
	for i := range runs {
		doc.Runs = append(doc.Runs, NewRecord(&runs[i], opts.Output))
		prog.Increment()
		prog.Print()
	}
	prog.Done()

	var buf bytes.Buffer
	if err := Encode(&buf, f, doc); err != nil {
		return result, fmt.Errorf("encoding archive: %w", err)
	}

	if dst == "" || dst == "-" {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return result, err
		}
		result.Exported = len(runs)
		return result, nil
	}

	if err := writeFile(dst, buf.Bytes(), opts.Force); err != nil {
		return result, err
	}
	result.Exported = len(runs)
	result.Path = dst
	fmt.Fprintf(w, "Exported %d run(s) -> %s\n", len(runs), dst)
	return result, nil
}

// writeFile writes data to path inside an os.Root opened on its
// directory, refusing to replace an existing file unless force is set.
func writeFile(path string, data []byte, force bool) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("opening destination: %w", err)
	}
	defer root.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := root.OpenFile(name, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("file exists: %s (use --force to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
