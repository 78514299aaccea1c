package timing

import (
	"context"
	"fmt"

	"github.com/jpl-au/stopwatch/internal/store"
)

// Get returns a run by full ID.
func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*store.Run, error) {
	return s.store.Get(ctx, id, includeDeleted)
}

// Resolve returns a run by full ID or unique prefix.
func (s *Service) Resolve(ctx context.Context, idOrPrefix string, includeDeleted bool) (*store.Run, error) {
	r, err := s.store.Resolve(ctx, idOrPrefix, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", idOrPrefix, err)
	}
	return r, nil
}

// List returns runs matching the filter. A zero Limit uses the configured
// history.limit; a negative Limit lists everything.
func (s *Service) List(ctx context.Context, f store.Filter) ([]store.Run, error) {
	switch {
	case f.Limit < 0:
		f.Limit = 0
	case f.Limit == 0 && s.cfg != nil:
		f.Limit = s.cfg.HistoryLimit()
	}
	return s.store.List(ctx, f)
}

// Labels returns the distinct labels of active runs.
func (s *Service) Labels(ctx context.Context) ([]string, error) {
	return s.store.Labels(ctx)
}

// Stats aggregates elapsed times for a label, or all runs when empty.
func (s *Service) Stats(ctx context.Context, label string) (*store.Stats, error) {
	st, err := s.store.Stats(ctx, label)
	if err != nil {
		if label != "" {
			return nil, fmt.Errorf("stats for %q: %w", label, err)
		}
		return nil, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// Summary returns store-wide counts.
func (s *Service) Summary(ctx context.Context) (*store.Summary, error) {
	return s.store.Summary(ctx)
}

// CountDeleted returns the number of soft-deleted runs.
func (s *Service) CountDeleted(ctx context.Context, label string) (int64, error) {
	return s.store.CountDeleted(ctx, label)
}
