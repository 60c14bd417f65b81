package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/ghost-log/app/eventbus"
	"github.com/Black-And-White-Club/ghost-log/app/httpapi"
	recordsservice "github.com/Black-And-White-Club/ghost-log/app/modules/records/application"
	recordsdb "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/repositories"
	recordsstorage "github.com/Black-And-White-Club/ghost-log/app/modules/records/infrastructure/storage"
	"github.com/Black-And-White-Club/ghost-log/app/modules/stopwatch"
	"github.com/Black-And-White-Club/ghost-log/app/observability"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/Black-And-White-Club/ghost-log/internal/clock"
)

// App wires storage, the records service, the change bus and the HTTP surface.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	Clock         clock.Clock

	store     recordsdb.KeyValueStore
	Records   *recordsservice.Service
	EventBus  *eventbus.EventBus
	Feed      *eventbus.ChangeFeed
	Router    *eventbus.ChangeRouter
	Stopwatch *stopwatch.Stopwatch
}

// NewApp opens the configured storage and builds every module.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	if obs == nil {
		obs = observability.NewNoop()
	}
	logger := obs.Logger
	clk := clock.RealClock{}

	store, err := recordsstorage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	bus := eventbus.New(logger)
	feed := eventbus.NewChangeFeed(eventbus.DefaultFeedSize)
	router, err := eventbus.NewChangeRouter(logger, bus.Subscriber(), feed, obs.Metrics, obs.Tracer, obs.Registry)
	if err != nil {
		_ = bus.Close()
		_ = store.Close()
		return nil, err
	}
	if err := router.Configure(); err != nil {
		_ = bus.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to configure change router: %w", err)
	}

	repo := recordsdb.NewSnapshotDB(store, cfg.Storage.Key, logger)
	records := recordsservice.NewService(repo, bus, clk, logger, obs.Metrics, obs.Tracer)

	logger.InfoContext(ctx, "Application initialized",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("metrics_enabled", obs.Registry != nil),
	)

	return &App{
		Config:        cfg,
		Observability: obs,
		Clock:         clk,
		store:         store,
		Records:       records,
		EventBus:      bus,
		Feed:          feed,
		Router:        router,
		Stopwatch:     stopwatch.New(clk, logger),
	}, nil
}

// Handler returns the HTTP routes. ctx bounds background work started by requests.
func (app *App) Handler(ctx context.Context) http.Handler {
	return httpapi.NewServer(ctx, httpapi.Deps{
		Records:   app.Records,
		Stopwatch: app.Stopwatch,
		Feed:      app.Feed,
		Clock:     app.Clock,
		Logger:    app.Observability.Logger,
		Metrics:   app.Observability.Metrics,
		Registry:  app.Observability.Registry,
		Config:    app.Config.HTTP,
	}).Routes()
}

// Close releases every resource in reverse order of creation.
func (app *App) Close() error {
	var errs []error
	if err := app.Stopwatch.Close(); err != nil {
		errs = append(errs, fmt.Errorf("stopwatch: %w", err))
	}
	if err := app.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("change router: %w", err))
	}
	if err := app.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus: %w", err))
	}
	if err := app.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	return errors.Join(errs...)
}
