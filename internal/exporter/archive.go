// archive.go defines the portable run archive shared by export and import.
//
// An archive is one Document holding every exported run. The same struct
// is written as JSON, YAML or CBOR. Elapsed times travel as the canonical
// textual encoding; elapsed_ns carries the sub-second part when the span
// fits in an int64.

package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/internal/validate"
	"github.com/jpl-au/stopwatch/measure"
	"gopkg.in/yaml.v3"
)

// ArchiveVersion is the Document.Version this build reads and writes.
const ArchiveVersion = 1

// ErrNegativeElapsed is returned for a record whose elapsed time, in
// either field, is below zero. A recorded run never took negative time.
var ErrNegativeElapsed = errors.New("elapsed must not be negative")

// Format is an archive encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected json, yaml or cbor)", s)
}

// FormatFromPath picks the encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// Document is the archive root.
type Document struct {
	Version    int      `json:"version" yaml:"version"`
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Runs       []Record `json:"runs" yaml:"runs"`
}

// Record is the archived form of one run.
type Record struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Command   string `json:"command,omitempty" yaml:"command,omitempty"`
	Dir       string `json:"dir,omitempty" yaml:"dir,omitempty"`
	StartedAt string `json:"started_at" yaml:"started_at"`
	Elapsed   string `json:"elapsed" yaml:"elapsed"`
	ElapsedNS *int64 `json:"elapsed_ns,omitempty" yaml:"elapsed_ns,omitempty"`
	ExitCode  int    `json:"exit_code" yaml:"exit_code"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt int64  `json:"created_at" yaml:"created_at"`
	DeletedAt *int64 `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// NewRecord archives a run. Captured output is kept only when output is set.
func NewRecord(r *store.Run, output bool) Record {
	rec := Record{
		ID:        r.ID,
		Label:     r.Label,
		Command:   r.Command,
		Dir:       r.Dir,
		StartedAt: r.StartedAt.UTC().Format(time.RFC3339Nano),
		Elapsed:   measure.Encode(r.Elapsed),
		ExitCode:  r.ExitCode,
		Truncated: r.Truncated,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		DeletedAt: r.DeletedAt,
	}
	if n, ok := r.Elapsed.Nanoseconds(); ok {
		rec.ElapsedNS = &n
	}
	if output {
		rec.Output = r.Output
	}
	return rec
}

// Run converts the record back into a run. Decode failures are returned
// unwrapped so the caller can attach the record's position.
func (rec Record) Run() (*store.Run, error) {
	elapsed, err := measure.Decode(rec.Elapsed)
	if err != nil {
		return nil, fmt.Errorf("elapsed %q: %w", rec.Elapsed, err)
	}
	if rec.ElapsedNS != nil {
		// elapsed_ns refines elapsed; it must agree to the second.
		precise := measure.From(duration.Nanoseconds(*rec.ElapsedNS))
		if measure.Encode(precise) != measure.Encode(elapsed) {
			return nil, fmt.Errorf("elapsed_ns %d disagrees with elapsed %q", *rec.ElapsedNS, rec.Elapsed)
		}
		elapsed = precise
	}
	if elapsed.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeElapsed, measure.Format(elapsed))
	}

	started, err := time.Parse(time.RFC3339Nano, rec.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	if err := validate.Label(rec.Label); err != nil {
		return nil, err
	}
	if rec.ID != "" {
		if err := validate.ID(rec.ID); err != nil {
			return nil, err
		}
	}

	return &store.Run{
		ID:        rec.ID,
		Label:     rec.Label,
		Command:   rec.Command,
		Dir:       rec.Dir,
		StartedAt: started,
		Elapsed:   elapsed,
		ExitCode:  rec.ExitCode,
		Output:    rec.Output,
		Truncated: rec.Truncated,
		Author:    rec.Author,
		CreatedAt: rec.CreatedAt,
		DeletedAt: rec.DeletedAt,
	}, nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("archive CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("archive CBOR decoder mode: %v", err))
	}
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, f Format, doc *Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return encMode.NewEncoder(w).Encode(doc)
	}
	return fmt.Errorf("unknown format %q", f)
}

// Decode reads one document from r in the given format and checks its version.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatCBOR:
		err = decMode.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s archive: %w", f, err)
	}
	if doc.Version != ArchiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d (expected %d)", doc.Version, ArchiveVersion)
	}
	return &doc, nil
}

