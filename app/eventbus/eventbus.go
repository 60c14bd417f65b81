package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// OutputChannelBuffer is the per-subscriber buffer of the in-process pub/sub.
const OutputChannelBuffer = 64

type correlationKey struct{}

// WithCorrelationID returns a context whose published messages carry id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the id set by WithCorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// EventBus publishes change events to in-process subscribers.
type EventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates an EventBus backed by a watermill GoChannel.
func New(logger *slog.Logger) *EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: OutputChannelBuffer},
		watermill.NewSlogLogger(logger),
	)
	return &EventBus{pubsub: pubsub, logger: logger}
}

// Publish marshals payload as JSON and publishes it on topic. The message carries the
// context's correlation id, or a fresh one.
func (eb *EventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	correlationID := CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.Metadata.Set("topic", topic)
	msg.SetContext(ctx)

	if err := eb.pubsub.Publish(topic, msg); err != nil {
		eb.logger.ErrorContext(ctx, "Failed to publish message",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	eb.logger.DebugContext(ctx, "Message published",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
		slog.String("correlation_id", correlationID),
	)
	return nil
}

// Subscriber exposes the subscribing side for routers.
func (eb *EventBus) Subscriber() message.Subscriber { return eb.pubsub }

// Close stops delivery to every subscriber.
func (eb *EventBus) Close() error {
	return eb.pubsub.Close()
}
