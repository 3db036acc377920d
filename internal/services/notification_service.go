package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

type notificationService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page PageRequest) ([]*models.Notification, int64, error) {
	list, total, err := s.repo.Notification().ListByUser(ctx, userID, repositories.NotificationFilters{
		UnreadOnly: unreadOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.Notification().CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return translateRepoError(s.repo.Notification().MarkRead(ctx, id, userID), ErrNotificationNotFound, "mark notification read")
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.Notification().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, title, message string) error {
	if userID == uuid.Nil {
		return nil
	}
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: models.NotificationInApp,
	}
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ===== EVENT PROJECTION =====

func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) error {
	logger := s.logger.With("event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case events.BookingCreated:
		var data events.BookingEventData
		if err := event.Decode(&data); err != nil {
			logger.Error("Skipping undecodable event", "error", err)
			return nil
		}
		return s.Notify(ctx, data.ProviderUserID, "New booking",
			fmt.Sprintf("You have a new booking for %s on %s.", data.ServiceName, data.BookingDate))

	case events.BookingStatusChanged:
		var data events.BookingEventData
		if err := event.Decode(&data); err != nil {
			logger.Error("Skipping undecodable event", "error", err)
			return nil
		}
		return s.Notify(ctx, data.UserID, "Booking updated",
			fmt.Sprintf("Your booking for %s on %s is now %s.", data.ServiceName, data.BookingDate, data.Status))

	case events.ReviewCreated:
		var data events.ReviewEventData
		if err := event.Decode(&data); err != nil {
			logger.Error("Skipping undecodable event", "error", err)
			return nil
		}
		return s.Notify(ctx, data.ProviderUserID, "New review",
			fmt.Sprintf("%s rated you %d out of 5.", stringOr(data.ReviewerName, "A user"), data.Rating))

	case events.ProviderApproved:
		var data events.ProviderApprovedData
		if err := event.Decode(&data); err != nil {
			logger.Error("Skipping undecodable event", "error", err)
			return nil
		}
		return s.Notify(ctx, data.UserID, "Profile approved",
			fmt.Sprintf("Your provider profile %s is now visible to everyone.", data.Name))
	}

	logger.Debug("No notification for event")
	return nil
}

// RegisterNotificationHandlers subscribes the projector to every published event type
func RegisterNotificationHandlers(consumer *events.Consumer, notifications NotificationService) {
	for _, eventType := range events.AllEventTypes {
		consumer.Handle("notifications_"+string(eventType), eventType, notifications.HandleEvent)
	}
}
