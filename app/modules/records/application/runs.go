package recordsservice

import (
	"context"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/google/uuid"
)

const runEntity = "run"

// CreateRun validates and stores a new run and returns its enriched view.
//
// The run number counts earlier runs on the run's own date with the same number of
// players. A missing timestamp means now, so new runs are numbered within today; a
// backdated run is numbered within its own date, not today's. A missing actual ghost
// means the guess was right.
func (s *Service) CreateRun(ctx context.Context, in recordsdomain.Run) (recordsdomain.RunView, error) {
	var out recordsdomain.RunView
	err := s.withTelemetry(ctx, "runs.Create", func(ctx context.Context) error {
		return s.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			run := in.Clone()
			if run.Timestamp.IsZero() {
				run.Timestamp = s.clock.NowUTC()
			}
			if err := prepareRun(snap, &run, nil); err != nil {
				return nil, err
			}

			run.ID = recordsdomain.NextRunID(snap.Runs)
			run.RunNumber = nextRunNumber(snap.Runs, run.Date(), run.PlayerCount())
			snap.Runs = append(snap.Runs, run)

			out = recordsdomain.Enrich(run, recordsdomain.NewLookup(snap))
			return []recordsdomain.ChangeEvent{{Topic: recordsdomain.TopicRunCreated, Kind: "runs", ID: run.ID}}, nil
		})
	})
	return out, err
}

// UpdateRun replaces a run. The id and run number are kept, and so is the timestamp when
// in carries none.
func (s *Service) UpdateRun(ctx context.Context, id int, in recordsdomain.Run) (recordsdomain.RunView, error) {
	var out recordsdomain.RunView
	err := s.withTelemetry(ctx, "runs.Update", func(ctx context.Context) error {
		return s.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			i := runIndex(snap.Runs, id)
			if i < 0 {
				return nil, runNotFound(id)
			}
			existing := snap.Runs[i]

			run := in.Clone()
			run.ID = existing.ID
			run.RunNumber = existing.RunNumber
			if run.Timestamp.IsZero() {
				run.Timestamp = existing.Timestamp
			}
			if err := prepareRun(snap, &run, &existing); err != nil {
				return nil, err
			}
			snap.Runs[i] = run

			out = recordsdomain.Enrich(run, recordsdomain.NewLookup(snap))
			return []recordsdomain.ChangeEvent{{Topic: recordsdomain.TopicRunUpdated, Kind: "runs", ID: run.ID}}, nil
		})
	})
	return out, err
}

// DeleteRun removes a run and returns it.
func (s *Service) DeleteRun(ctx context.Context, id int) (recordsdomain.Run, error) {
	var out recordsdomain.Run
	err := s.withTelemetry(ctx, "runs.Delete", func(ctx context.Context) error {
		return s.mutate(ctx, func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error) {
			i := runIndex(snap.Runs, id)
			if i < 0 {
				return nil, runNotFound(id)
			}
			out = snap.Runs[i].Clone()
			snap.Runs = append(snap.Runs[:i], snap.Runs[i+1:]...)
			return []recordsdomain.ChangeEvent{{Topic: recordsdomain.TopicRunDeleted, Kind: "runs", ID: id}}, nil
		})
	})
	return out, err
}

// GetRun returns the enriched view of one run.
func (s *Service) GetRun(ctx context.Context, id int) (recordsdomain.RunView, error) {
	var out recordsdomain.RunView
	err := s.withTelemetry(ctx, "runs.Get", func(ctx context.Context) error {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}
		i := runIndex(snap.Runs, id)
		if i < 0 {
			return runNotFound(id)
		}
		out = recordsdomain.Enrich(snap.Runs[i], recordsdomain.NewLookup(snap))
		return nil
	})
	return out, err
}

// ListRuns returns every run, enriched, in stored order.
func (s *Service) ListRuns(ctx context.Context) ([]recordsdomain.RunView, error) {
	var out []recordsdomain.RunView
	err := s.withTelemetry(ctx, "runs.List", func(ctx context.Context) error {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}
		lookup := recordsdomain.NewLookup(snap)
		out = make([]recordsdomain.RunView, 0, len(snap.Runs))
		for _, r := range snap.Runs {
			out = append(out, recordsdomain.Enrich(r, lookup))
		}
		return nil
	})
	return out, err
}

// prepareRun normalizes the roster and checks every reference. existing is the stored
// version when updating; a run may keep pointing at a map archived since it was logged.
func prepareRun(snap *recordsdomain.Snapshot, run *recordsdomain.Run, existing *recordsdomain.Run) error {
	run.Timestamp = run.Timestamp.UTC()
	run.RoomName = strings.TrimSpace(run.RoomName)
	run.LegacyStatuses = nil

	players := make(recordsdomain.RunPlayers, 0, len(run.Players))
	for _, p := range run.Players {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		switch p.Status {
		case "":
			p.Status = recordsdomain.StatusAlive
		case recordsdomain.StatusAlive, recordsdomain.StatusDead:
		default:
			return invalidConfig(runEntity, "player %q has unknown status %q", p.Name, p.Status)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		players = append(players, p)
	}
	run.Players = players

	mi := indexOf(snap.Maps, run.MapID)
	if mi < 0 {
		return invalidRef(runEntity, "map %d does not exist", run.MapID)
	}
	if snap.Maps[mi].IsArchived && (existing == nil || existing.MapID != run.MapID) {
		return invalidConfig(runEntity, "map %q is archived", snap.Maps[mi].Name)
	}

	run.EvidenceIDs = uniqueInts(run.EvidenceIDs)
	for _, id := range run.EvidenceIDs {
		if !hasID(snap.Evidence, id) {
			return invalidRef(runEntity, "evidence %d does not exist", id)
		}
	}
	if run.GameModeID != 0 {
		gi := indexOf(snap.GameModes, run.GameModeID)
		if gi < 0 {
			return invalidRef(runEntity, "game mode %d does not exist", run.GameModeID)
		}
		if mode := snap.GameModes[gi]; len(run.EvidenceIDs) > mode.MaxEvidence {
			return invalidConfig(runEntity, "game mode %q allows %d evidence, got %d",
				mode.Name, mode.MaxEvidence, len(run.EvidenceIDs))
		}
	} else if len(run.EvidenceIDs) > recordsdomain.MaxGhostEvidence {
		return invalidConfig(runEntity, "a run has at most %d evidence, got %d",
			recordsdomain.MaxGhostEvidence, len(run.EvidenceIDs))
	}

	if run.GhostID != 0 && !hasID(snap.Ghosts, run.GhostID) {
		return invalidRef(runEntity, "ghost %d does not exist", run.GhostID)
	}
	if run.ActualGhostID == nil && run.GhostID != 0 {
		actual := run.GhostID
		run.ActualGhostID = &actual
	}
	if run.ActualGhostID != nil && !hasID(snap.Ghosts, *run.ActualGhostID) {
		return invalidRef(runEntity, "ghost %d does not exist", *run.ActualGhostID)
	}
	if run.CursedPossessionID != nil && !hasID(snap.CursedPossessions, *run.CursedPossessionID) {
		return invalidRef(runEntity, "cursed possession %d does not exist", *run.CursedPossessionID)
	}
	if run.ChallengeModeID != nil && !hasID(snap.ChallengeModes, *run.ChallengeModeID) {
		return invalidRef(runEntity, "challenge mode %d does not exist", *run.ChallengeModeID)
	}
	if run.RunTimeSeconds != nil && *run.RunTimeSeconds < 0 {
		return invalidConfig(runEntity, "run time cannot be negative")
	}
	return nil
}

// nextRunNumber is one more than the number of runs on date with playerCount players.
func nextRunNumber(runs []recordsdomain.Run, date string, playerCount int) int {
	n := 0
	for _, r := range runs {
		if r.Date() == date && r.PlayerCount() == playerCount {
			n++
		}
	}
	return n + 1
}

func runIndex(runs []recordsdomain.Run, id int) int {
	for i := range runs {
		if runs[i].ID == id {
			return i
		}
	}
	return -1
}

func runNotFound(id int) error {
	return recordsdomain.NewError(recordsdomain.ErrNotFound, runEntity, "no run with id %d", id)
}
