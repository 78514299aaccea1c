package timing

import (
	"context"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/measure"
)

// Vacuum permanently deletes soft-deleted runs.
func (s *Service) Vacuum(ctx context.Context, olderThan *measure.Measurement, label string) (int64, error) {
	n, err := s.store.Vacuum(ctx, olderThan, label)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.fireEvent(extension.VacuumEvent{Label: label, OlderThan: olderThan, Count: n})
	}
	return n, nil
}

// Compare resolves two runs and reports b's elapsed time relative to a's,
// plus a diff of their captured output unless opts.ElapsedOnly is set.
func (s *Service) Compare(ctx context.Context, a, b string, opts diff.Options) (diff.Comparison, error) {
	ra, err := s.Resolve(ctx, a, opts.IncludeDeleted)
	if err != nil {
		return diff.Comparison{}, err
	}
	rb, err := s.Resolve(ctx, b, opts.IncludeDeleted)
	if err != nil {
		return diff.Comparison{}, err
	}

	c := diff.Elapsed(ra.Elapsed, rb.Elapsed)
	if !opts.ElapsedOnly {
		c.Result = diff.Compute(ra.Output, rb.Output,
			ra.Short()+" "+ra.Label, rb.Short()+" "+rb.Label)
	}
	return c, nil
}
