package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
)

const EventSource = "eduactivity"

type EventType string

const (
	BookingCreated       EventType = "booking.created"
	BookingStatusChanged EventType = "booking.status_changed"
	ReviewCreated        EventType = "review.created"
	ProviderApproved     EventType = "provider.approved"
)

// AllEventTypes lists every topic the service publishes
var AllEventTypes = []EventType{BookingCreated, BookingStatusChanged, ReviewCreated, ProviderApproved}

// Event is the envelope carried on the bus; Data holds the type-specific payload
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id
func NewEvent(eventType EventType, data interface{}) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    EventSource,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// Decode unmarshals the payload into dest
func (e Event) Decode(dest interface{}) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// ===== PAYLOADS =====

type BookingEventData struct {
	BookingID      uuid.UUID `json:"booking_id"`
	UserID         uuid.UUID `json:"user_id"`
	ProviderUserID uuid.UUID `json:"provider_user_id"`
	ServiceName    string    `json:"service_name"`
	BookingDate    string    `json:"booking_date"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
}

type ReviewEventData struct {
	ReviewID       uuid.UUID `json:"review_id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	ProviderUserID uuid.UUID `json:"provider_user_id"`
	ReviewerName   string    `json:"reviewer_name"`
	Rating         int       `json:"rating"`
}

type ProviderApprovedData struct {
	ProviderID uuid.UUID `json:"provider_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
}

// EventPublisher publishes domain events after the originating write has committed
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
