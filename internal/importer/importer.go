// Package importer reads a run archive written by exporter back into the
// store.
package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/stopwatch/internal/exporter"
	"github.com/jpl-au/stopwatch/internal/progress"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/validate"
)

// Options configures an import operation.
type Options struct {
	Format    exporter.Format // Empty picks from the source extension
	NewIDs    bool            // Assign fresh IDs instead of keeping archived ones
	DryRun    bool            // Validate and report without importing
	Author    string          // Author for records that carry none
	MaxOutput int64           // Reject larger captured output (0 for no limit)
	Stdin     io.Reader       // Read when src is "-"
}

// Result contains the outcome of an import operation.
type Result struct {
	Imported int      // Runs written
	Skipped  int      // Runs whose ID already exists
	IDs      []string // IDs that were (or would be) imported
}

// Run imports the archive at src ("-" for Options.Stdin). Every record is
// validated before any is written, so a malformed archive imports nothing.
// Records whose ID already exists are skipped unless NewIDs is set.
func Run(ctx context.Context, w io.Writer, svc service.Service, src string, opts Options) (Result, error) {
	var result Result

	doc, err := read(src, opts)
	if err != nil {
		return result, err
	}

	runs := make([]*store.Run, 0, len(doc.Runs))
	for i, rec := range doc.Runs {
		r, err := rec.Run()
		if err != nil {
			return result, fmt.Errorf("record %d: %w", i, err)
		}
		if err := validate.Output(r.Output, opts.MaxOutput); err != nil {
			return result, fmt.Errorf("record %d: %w", i, err)
		}
		if opts.NewIDs {
			r.ID = ""
		}
		if r.Author == "" {
			r.Author = opts.Author
		}
		runs = append(runs, r)
	}

	if opts.DryRun {
		for _, r := range runs {
			fmt.Fprintf(w, "Would import: %s %s (%s)\n", shortOrNew(r), r.Label, r.Elapsed)
			result.IDs = append(result.IDs, r.ID)
		}
		fmt.Fprintf(w, "\nWould import %d run(s)\n", len(runs))
		return result, nil
	}

	prog := progress.New("Importing", len(runs))
	defer prog.Done()

	for i, r := range runs {
		err := svc.Record(ctx, r)
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("record %d: %w", i, err)
		default:
			result.Imported++
			result.IDs = append(result.IDs, r.ID)
		}
		prog.Increment()
		prog.Print()
	}

	fmt.Fprintf(w, "Imported %d run(s)", result.Imported)
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", skipped %d existing (use --new-ids to import as copies)", result.Skipped)
	}
	fmt.Fprintln(w)
	return result, nil
}

func read(src string, opts Options) (*exporter.Document, error) {
	f := opts.Format
	if src == "-" {
		if opts.Stdin == nil {
			return nil, fmt.Errorf("no input")
		}
		if f == "" {
			f = exporter.FormatJSON
		}
		return exporter.Decode(bufio.NewReader(opts.Stdin), f)
	}

	if f == "" {
		f = exporter.FormatFromPath(src)
	}
	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return exporter.Decode(bufio.NewReader(file), f)
}

func shortOrNew(r *store.Run) string {
	if r.ID == "" {
		return "(new)"
	}
	return r.Short()
}
