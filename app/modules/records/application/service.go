package recordsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/ghost-log/app/observability"
	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	recordsdb "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories"
	"github.com/Black-And-White-Club/ghost-log/internal/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RecordsService"

// Service owns the records snapshot. Every mutation loads the snapshot, validates,
// mutates and saves it whole while holding mu.
type Service struct {
	repo      recordsdb.Repository
	publisher EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
	metrics   observability.Metrics
	tracer    trace.Tracer

	mu sync.Mutex

	Maps              *Collection[recordsdomain.Map, *recordsdomain.Map]
	Ghosts            *Collection[recordsdomain.Ghost, *recordsdomain.Ghost]
	Evidence          *Collection[recordsdomain.Evidence, *recordsdomain.Evidence]
	CursedPossessions *Collection[recordsdomain.CursedPossession, *recordsdomain.CursedPossession]
	GameModes         *Collection[recordsdomain.GameMode, *recordsdomain.GameMode]
	Players           *Collection[recordsdomain.Player, *recordsdomain.Player]
	MapCollections    *Collection[recordsdomain.MapCollection, *recordsdomain.MapCollection]
	ChallengeModes    *Collection[recordsdomain.ChallengeMode, *recordsdomain.ChallengeMode]
}

// NewService creates a Service. A nil publisher disables change events and a nil clock
// uses the system clock.
func NewService(
	repo recordsdb.Repository,
	publisher EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if metrics == nil {
		metrics = observability.NewNoOpMetrics()
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}

	s.Maps = newCollection(s, KindMaps,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.Map { return &snap.Maps },
		prepareMap, cascadeMap)
	s.Ghosts = newCollection(s, KindGhosts,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.Ghost { return &snap.Ghosts },
		prepareGhost, cascadeGhost)
	s.Evidence = newCollection(s, KindEvidence,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.Evidence { return &snap.Evidence },
		nil, cascadeEvidence)
	s.CursedPossessions = newCollection(s, KindCursedPossessions,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.CursedPossession { return &snap.CursedPossessions },
		nil, nil)
	s.GameModes = newCollection(s, KindGameModes,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.GameMode { return &snap.GameModes },
		prepareGameMode, nil)
	s.Players = newCollection(s, KindPlayers,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.Player { return &snap.Players },
		preparePlayer, nil)
	s.MapCollections = newCollection(s, KindMapCollections,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.MapCollection { return &snap.MapCollections },
		prepareMapCollection, nil)
	s.ChallengeModes = newCollection(s, KindChallengeModes,
		func(snap *recordsdomain.Snapshot) *[]recordsdomain.ChallengeMode { return &snap.ChallengeModes },
		prepareChallengeMode, nil)

	return s
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func (s *Service) withTelemetry(
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) error,
) (err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operationName),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err = ctx.Err(); err == nil {
		err = op(ctx)
	}
	if err != nil {
		var validation *recordsdomain.Error
		if errors.As(err, &validation) {
			// Rejected input, not a fault.
			s.logger.WarnContext(ctx, "Operation rejected",
				slog.String("operation", operationName),
				slog.String("reason", validation.Error()),
			)
		} else {
			s.logger.ErrorContext(ctx, "Operation failed with error",
				slog.String("operation", operationName),
				slog.Any("error", err),
			)
		}
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", operationName, err)
	}

	s.logger.DebugContext(ctx, "Operation completed successfully",
		slog.String("operation", operationName),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return nil
}

// load returns a private copy of the current snapshot.
func (s *Service) load(ctx context.Context) (*recordsdomain.Snapshot, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

// mutate applies fn to a fresh snapshot and persists the result in one write. Nothing is
// written when fn fails. Events returned by fn are published after the save.
func (s *Service) mutate(
	ctx context.Context,
	fn func(snap *recordsdomain.Snapshot) ([]recordsdomain.ChangeEvent, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	events, err := fn(snap)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.publish(ctx, events...)
	return nil
}

// publish sends change events. Failures are logged; the change is already persisted.
func (s *Service) publish(ctx context.Context, events ...recordsdomain.ChangeEvent) {
	if s.publisher == nil {
		return
	}
	for _, ev := range events {
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = s.clock.NowUTC()
		}
		if err := s.publisher.Publish(ctx, ev.Topic, ev); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish change event",
				slog.String("topic", ev.Topic),
				slog.Any("error", err),
			)
		}
	}
}
