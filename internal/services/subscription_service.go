package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type subscriptionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewSubscriptionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) SubscriptionService {
	return &subscriptionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *subscriptionService) List(ctx context.Context, principal Principal) ([]*models.Subscription, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}

	provider, err := s.repo.Provider().GetByUserID(ctx, principal.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return []*models.Subscription{}, nil
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	subscriptions, err := s.repo.Subscription().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (s *subscriptionService) Create(ctx context.Context, principal Principal, req *SubscriptionRequest) (*models.Subscription, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	start := models.TruncateDate(s.now())
	if req.StartDate != nil {
		parsed, err := validator.ParseDate(*req.StartDate)
		if err != nil {
			return nil, fieldError("start_date", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
		}
		start = parsed
	}

	user, err := s.repo.User().GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, translateRepoError(err, ErrUserNotFound, "get user")
	}

	subscription := &models.Subscription{
		PlanType:    req.PlanType,
		Amount:      req.Amount,
		Currency:    stringOr(req.Currency, models.DefaultCurrency),
		PaymentID:   req.PaymentID,
		StartDate:   datatypes.Date(start),
		EndDate:     datatypes.Date(SubscriptionEndDate(start, req.PlanType)),
		Status:      models.PlanActive,
		AutoRenewal: req.AutoRenewal,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		provider, err := ensureProviderProfile(ctx, tx, user)
		if err != nil {
			return err
		}
		subscription.ProviderID = provider.ID
		if err := tx.Subscription().Create(ctx, subscription); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return tx.Provider().SetSubscriptionStatus(ctx, provider.ID, models.SubscriptionActive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subscription created",
		"subscription_id", subscription.ID,
		"provider_id", subscription.ProviderID,
		"plan_type", subscription.PlanType)
	return subscription, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, principal Principal, id uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.repo.Subscription().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrSubscriptionNotFound, "get subscription")
	}
	if err := Authorize(principal, ActionWrite, SubscriptionOwnership(subscription)); err != nil {
		return nil, ErrSubscriptionNotFound
	}
	if subscription.Status != models.PlanActive {
		return nil, fieldError("status", "Only active subscriptions can be cancelled.", "active")
	}

	today := models.TruncateDate(s.now())
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		subscription.Status = models.PlanCancelled
		if err := tx.Subscription().Update(ctx, subscription); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		return s.syncProviderStatus(ctx, tx, subscription.ProviderID, today, models.SubscriptionInactive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subscription cancelled", "subscription_id", id)
	return subscription, nil
}

func (s *subscriptionService) ExpireLapsed(ctx context.Context) (int, error) {
	today := models.TruncateDate(s.now())

	lapsed, err := s.repo.Subscription().ListLapsed(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}
	if len(lapsed) == 0 {
		return 0, nil
	}

	providers := make(map[uuid.UUID]struct{})
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, sub := range lapsed {
			sub.Status = models.PlanExpired
			if err := tx.Subscription().Update(ctx, sub); err != nil {
				return fmt.Errorf("failed to expire subscription %s: %w", sub.ID, err)
			}
			providers[sub.ProviderID] = struct{}{}
		}
		for providerID := range providers {
			if err := s.syncProviderStatus(ctx, tx, providerID, today, models.SubscriptionExpired); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Expired lapsed subscriptions", "count", len(lapsed), "providers", len(providers))
	return len(lapsed), nil
}

// syncProviderStatus sets the provider active while any subscription runs, otherwise to fallback
func (s *subscriptionService) syncProviderStatus(ctx context.Context, tx repositories.Repository, providerID uuid.UUID, today time.Time, fallback models.SubscriptionStatus) error {
	active, err := tx.Subscription().CountActive(ctx, providerID, today)
	if err != nil {
		return fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	status := fallback
	if active > 0 {
		status = models.SubscriptionActive
	}
	if err := tx.Provider().SetSubscriptionStatus(ctx, providerID, status); err != nil {
		return fmt.Errorf("failed to update provider subscription status: %w", err)
	}
	return nil
}

// SubscriptionEndDate adds the plan's billing period to start
func SubscriptionEndDate(start time.Time, plan models.PlanType) time.Time {
	return models.TruncateDate(start).AddDate(0, plan.Months(), 0)
}
