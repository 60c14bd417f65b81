package recordsservice

import (
	"context"
	"fmt"
	"log/slog"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

// Snapshot returns a private copy of all data.
func (s *Service) Snapshot(ctx context.Context) (*recordsdomain.Snapshot, error) {
	var out *recordsdomain.Snapshot
	err := s.withTelemetry(ctx, "snapshot.Get", func(ctx context.Context) error {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}
		out = snap
		return nil
	})
	return out, err
}

// Export renders the snapshot as an indented JSON document.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	var out []byte
	err := s.withTelemetry(ctx, "snapshot.Export", func(ctx context.Context) error {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}
		data, err := snap.EncodeIndent()
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		out = data
		return nil
	})
	return out, err
}

// Import replaces all data with the document in data. Callers must reload any state
// they hold; a snapshot.imported event is published for that.
func (s *Service) Import(ctx context.Context, data []byte) (*recordsdomain.Snapshot, error) {
	var out *recordsdomain.Snapshot
	err := s.withTelemetry(ctx, "snapshot.Import", func(ctx context.Context) error {
		snap, err := recordsdomain.DecodeSnapshot(data)
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.repo.Save(ctx, snap); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		s.repo.Invalidate()

		s.logger.InfoContext(ctx, "Snapshot imported",
			slog.Int("maps", len(snap.Maps)),
			slog.Int("ghosts", len(snap.Ghosts)),
			slog.Int("runs", len(snap.Runs)),
		)
		s.publish(ctx, recordsdomain.ChangeEvent{Topic: recordsdomain.TopicSnapshotImported})
		out = snap.Clone()
		return nil
	})
	return out, err
}

// ClearAll removes the persisted snapshot entirely.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.withTelemetry(ctx, "snapshot.Clear", func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.repo.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		s.logger.InfoContext(ctx, "All data cleared")
		s.publish(ctx, recordsdomain.ChangeEvent{Topic: recordsdomain.TopicSnapshotCleared})
		return nil
	})
}

// ClearRuns deletes every run and keeps the reference data. It returns how many runs
// were removed.
func (s *Service) ClearRuns(ctx context.Context) (int, error) {
	removed := 0
	err := s.withTelemetry(ctx, "runs.Clear", func(ctx context.Context) error {
		return s.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			removed = len(snap.Runs)
			snap.Runs = []recordsdomain.Run{}
			return []recordsdomain.ChangeEvent{{Topic: recordsdomain.TopicRunsCleared, Cascaded: removed}}, nil
		})
	})
	return removed, err
}
