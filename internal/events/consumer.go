package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// HandlerFunc reacts to one decoded event
type HandlerFunc func(ctx context.Context, event Event) error

// Consumer routes bus messages to event handlers
type Consumer struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *slog.Logger
}

func NewConsumer(subscriber message.Subscriber, logger *slog.Logger) (*Consumer, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 10 * time.Second,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event router: %w", err)
	}

	router.AddMiddleware(
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	return &Consumer{
		router:     router,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Handle registers handler for one event type. Undecodable messages are logged and acked.
func (c *Consumer) Handle(name string, eventType EventType, handler HandlerFunc) {
	c.router.AddNoPublisherHandler(
		name,
		string(eventType),
		c.subscriber,
		func(msg *message.Message) error {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				c.logger.Error("Dropping malformed event", "message_uuid", msg.UUID, "error", err)
				return nil
			}
			return handler(msg.Context(), event)
		},
	)
}

// Run blocks until ctx is cancelled or the router is closed
func (c *Consumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running is closed once every handler is subscribed
func (c *Consumer) Running() chan struct{} {
	return c.router.Running()
}

func (c *Consumer) Close() error {
	return c.router.Close()
}
