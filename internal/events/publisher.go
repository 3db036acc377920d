package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// WatermillPublisher publishes events to a topic named after the event type
type WatermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewWatermillPublisher(publisher message.Publisher, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// PublishSafe publishes and logs a failure instead of returning it.
// Requests that already committed must not fail because the bus is down.
func PublishSafe(ctx context.Context, publisher EventPublisher, logger *slog.Logger, eventType EventType, data interface{}) {
	if publisher == nil {
		return
	}

	event, err := NewEvent(eventType, data)
	if err != nil {
		logger.Error("Failed to build event", "event_type", eventType, "error", err)
		return
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish event", "event_type", eventType, "event_id", event.ID, "error", err)
	}
}
