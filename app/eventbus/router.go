package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/app/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ChangeRouter consumes change events from the bus into the change feed.
type ChangeRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	feed       *ChangeFeed
	metrics    observability.Metrics
	tracer     trace.Tracer
	registry   *prometheus.Registry
}

// NewChangeRouter creates the router. A nil registry skips watermill's router metrics.
func NewChangeRouter(
	logger *slog.Logger,
	subscriber message.Subscriber,
	feed *ChangeFeed,
	metrics observability.Metrics,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) (*ChangeRouter, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	if metrics == nil {
		metrics = observability.NewNoOpMetrics()
	}
	return &ChangeRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		feed:       feed,
		metrics:    metrics,
		tracer:     tracer,
		registry:   registry,
	}, nil
}

// Configure adds middleware and one handler per change topic.
func (r *ChangeRouter) Configure() error {
	if r.registry != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		builder := metrics.NewPrometheusMetricsBuilder(r.registry, "ghostlog", "eventbus")
		builder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		r.traceHandler,
	)

	for _, topic := range recordsdomain.ChangeTopics {
		r.Router.AddNoPublisherHandler(
			"changes."+topic,
			topic,
			r.subscriber,
			r.HandleChange,
		)
	}
	return nil
}

// HandleChange appends a change event to the feed. Undecodable payloads are logged and
// dropped rather than redelivered.
func (r *ChangeRouter) HandleChange(msg *message.Message) error {
	ctx := msg.Context()
	topic := msg.Metadata.Get("topic")
	correlationID := middleware.MessageCorrelationID(msg)

	var ev recordsdomain.ChangeEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		r.metrics.RecordEventHandled(ctx, topic, false)
		r.logger.ErrorContext(ctx, "Dropping undecodable change event",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
		return nil
	}
	if ev.Topic == "" {
		ev.Topic = topic
	}

	seq := r.feed.Append(correlationID, ev)
	r.metrics.RecordEventHandled(ctx, ev.Topic, true)
	r.logger.InfoContext(ctx, "Change recorded",
		slog.String("topic", ev.Topic),
		slog.String("kind", ev.Kind),
		slog.Int("id", ev.ID),
		slog.Uint64("seq", seq),
		slog.String("correlation_id", correlationID),
	)
	return nil
}

func (r *ChangeRouter) traceHandler(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := r.tracer.Start(msg.Context(), "eventbus.handle",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.destination", msg.Metadata.Get("topic")),
				attribute.String("messaging.message_id", msg.UUID),
			),
		)
		defer span.End()
		msg.SetContext(ctx)

		out, err := h(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return out, err
	}
}

// Run blocks until ctx is cancelled or the router is closed.
func (r *ChangeRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *ChangeRouter) Running() chan struct{} {
	return r.Router.Running()
}

func (r *ChangeRouter) Close() error {
	return r.Router.Close()
}
