// write.go implements run recording, deletion and restore. Events fire
// only after the store change has committed.

package timing

import (
	"context"
	"fmt"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/store"
)

// Record stores an already-measured run.
func (s *Service) Record(ctx context.Context, r *store.Run) error {
	r.Author = s.author(r.Author)
	if err := s.store.Record(ctx, r); err != nil {
		return fmt.Errorf("record %q: %w", r.Label, err)
	}
	s.fireEvent(extension.RunRecordEvent{
		ID:       r.ID,
		Label:    r.Label,
		Command:  r.Command,
		Elapsed:  r.Elapsed,
		ExitCode: r.ExitCode,
		Author:   r.Author,
	})
	return nil
}

// Delete soft-deletes a run by ID or prefix.
func (s *Service) Delete(ctx context.Context, idOrPrefix string) (*store.Run, error) {
	r, err := s.Resolve(ctx, idOrPrefix, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, r.ID); err != nil {
		return nil, fmt.Errorf("delete %s: %w", r.Short(), err)
	}
	s.fireEvent(extension.RunDeleteEvent{ID: r.ID, Label: r.Label, Count: 1})
	return r, nil
}

// DeleteLabel soft-deletes every active run with the label.
func (s *Service) DeleteLabel(ctx context.Context, label string) (int64, error) {
	n, err := s.store.DeleteLabel(ctx, label)
	if err != nil {
		return 0, fmt.Errorf("delete label %q: %w", label, err)
	}
	if n > 0 {
		s.fireEvent(extension.RunDeleteEvent{Label: label, Count: n})
	}
	return n, nil
}

// Restore un-deletes a run by ID or prefix.
func (s *Service) Restore(ctx context.Context, idOrPrefix string) (*store.Run, error) {
	r, err := s.Resolve(ctx, idOrPrefix, true)
	if err != nil {
		return nil, err
	}
	if err := s.store.Restore(ctx, r.ID); err != nil {
		return nil, fmt.Errorf("restore %s: %w", r.Short(), err)
	}
	r.DeletedAt = nil
	s.fireEvent(extension.RunRestoreEvent{ID: r.ID, Label: r.Label})
	return r, nil
}
