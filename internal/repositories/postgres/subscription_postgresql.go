package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

type SubscriptionPostgreSQL struct {
	db *gorm.DB
}

func NewSubscriptionPostgreSQL(db *gorm.DB) repositories.SubscriptionRepository {
	return &SubscriptionPostgreSQL{db: db}
}

func (s *SubscriptionPostgreSQL) Create(ctx context.Context, subscription *models.Subscription) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(subscription).Error; err != nil {
		return handleDBError(err, "create subscription")
	}
	return nil
}

func (s *SubscriptionPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := s.db.WithContext(ctx).Preload("Provider").First(&subscription, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get subscription by id")
	}
	return &subscription, nil
}

func (s *SubscriptionPostgreSQL) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Subscription, error) {
	var subscriptions []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&subscriptions).Error; err != nil {
		return nil, handleDBError(err, "list subscriptions")
	}
	return subscriptions, nil
}

func (s *SubscriptionPostgreSQL) Update(ctx context.Context, subscription *models.Subscription) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(subscription).Error; err != nil {
		return handleDBError(err, "update subscription")
	}
	return nil
}

func (s *SubscriptionPostgreSQL) ListLapsed(ctx context.Context, day time.Time) ([]*models.Subscription, error) {
	var subscriptions []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", models.PlanActive, models.TruncateDate(day)).
		Order("end_date ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, handleDBError(err, "list lapsed subscriptions")
	}
	return subscriptions, nil
}

func (s *SubscriptionPostgreSQL) CountActive(ctx context.Context, providerID uuid.UUID, day time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("provider_id = ? AND status = ? AND end_date >= ?", providerID, models.PlanActive, models.TruncateDate(day)).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count active subscriptions")
	}
	return count, nil
}
