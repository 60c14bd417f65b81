// Package observability builds the logger, metrics and tracer shared by every module.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the telemetry handles passed to modules.
type Observability struct {
	Logger   *slog.Logger
	Metrics  Metrics
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// New builds the telemetry stack for cfg, logging to w.
func New(cfg *config.Config, w io.Writer) (*Observability, error) {
	logger, err := NewLogger(cfg.Logging, w)
	if err != nil {
		return nil, err
	}
	logger = logger.With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("environment", cfg.Observability.Environment),
	)

	obs := &Observability{
		Logger:  logger,
		Metrics: NewNoOpMetrics(),
		Tracer:  otel.Tracer(cfg.Observability.ServiceName),
	}

	if cfg.Observability.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := NewPrometheusMetrics(registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		obs.Metrics = metrics
		obs.Registry = registry
	}

	return obs, nil
}

// NewNoop returns telemetry that discards everything. Used by tests and one-shot commands.
func NewNoop() *Observability {
	return &Observability{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: NewNoOpMetrics(),
		Tracer:  noop.NewTracerProvider().Tracer("ghostlog"),
	}
}

// NewLogger returns a text or JSON slog logger at the configured level.
func NewLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// ParseLevel maps debug/info/warn/error onto slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
