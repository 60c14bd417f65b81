// Package httpapi serves the local JSON API used by the ghostlog UI.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/ghost-log/app/eventbus"
	recordsservice "github.com/Black-And-White-Club/ghost-log/app/modules/records/application"
	"github.com/Black-And-White-Club/ghost-log/app/modules/stopwatch"
	"github.com/Black-And-White-Club/ghost-log/app/observability"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/Black-And-White-Club/ghost-log/internal/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	records   *recordsservice.Service
	stopwatch *stopwatch.Stopwatch
	feed      *eventbus.ChangeFeed
	clock     clock.Clock
	logger    *slog.Logger
	metrics   observability.Metrics
	registry  *prometheus.Registry
	cfg       config.HTTPConfig
	// lifetime bounds work that outlives a request, such as the stopwatch tick loop.
	lifetime context.Context
}

// Deps are the collaborators NewServer wires together. Registry may be nil, which
// disables /metrics.
type Deps struct {
	Records   *recordsservice.Service
	Stopwatch *stopwatch.Stopwatch
	Feed      *eventbus.ChangeFeed
	Clock     clock.Clock
	Logger    *slog.Logger
	Metrics   observability.Metrics
	Registry  *prometheus.Registry
	Config    config.HTTPConfig
}

// NewServer creates the handler set. ctx should live as long as the process serves.
func NewServer(ctx context.Context, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = observability.NewNoOpMetrics()
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.Feed == nil {
		deps.Feed = eventbus.NewChangeFeed(0)
	}
	return &Server{
		records:   deps.Records,
		stopwatch: deps.Stopwatch,
		feed:      deps.Feed,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		registry:  deps.Registry,
		cfg:       deps.Config,
		lifetime:  ctx,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware(s.metrics))

	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(s.cfg.AllowedOrigins))
		if s.cfg.RateLimit > 0 {
			r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(s.cfg.RateLimit), max(s.cfg.RateBurst, 1))))
		}

		mountCollection(r, s, s.records.Maps)
		mountCollection(r, s, s.records.Ghosts)
		mountCollection(r, s, s.records.Evidence)
		mountCollection(r, s, s.records.CursedPossessions)
		mountCollection(r, s, s.records.GameModes)
		mountCollection(r, s, s.records.Players)
		mountCollection(r, s, s.records.MapCollections)
		mountCollection(r, s, s.records.ChallengeModes)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleBrowseRuns)
			r.Post("/", s.handleCreateRun)
			r.Delete("/", s.handleClearRuns)
			r.Get("/{id}", s.handleGetRun)
			r.Put("/{id}", s.handleUpdateRun)
			r.Delete("/{id}", s.handleDeleteRun)
		})

		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", s.handleExport)
			r.Post("/", s.handleImport)
			r.Delete("/", s.handleClearAll)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/runs.xlsx", s.handleRunsWorkbook)
			r.Get("/ghosts.png", s.handleGhostChart)
			r.Get("/ghosts", s.handleGhostStats)
		})

		if s.stopwatch != nil {
			r.Route("/timer", func(r chi.Router) {
				r.Get("/", s.handleTimerState)
				r.Post("/start", s.handleTimerStart)
				r.Post("/pause", s.handleTimerPause)
				r.Post("/stop", s.handleTimerStop)
				r.Post("/reset", s.handleTimerReset)
			})
		}

		r.Get("/changes", s.handleChanges)
	})
	return r
}
