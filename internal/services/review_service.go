package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ReviewService {
	return &reviewService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *reviewService) ListByProvider(ctx context.Context, principal *Principal, providerID uuid.UUID, page PageRequest) ([]*models.ReviewView, int64, error) {
	if _, err := s.viewableProvider(ctx, principal, providerID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := s.repo.Review().ListByProvider(ctx, providerID, repositories.ReviewFilters{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	views := make([]*models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, models.NewReviewView(r))
	}
	return views, total, nil
}

func (s *reviewService) Create(ctx context.Context, principal Principal, providerID uuid.UUID, req *ReviewRequest) (*models.ReviewView, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	provider, err := s.viewableProvider(ctx, &principal, providerID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:     principal.UserID,
		ProviderID: providerID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := s.repo.Review().Create(ctx, review); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("review", "You have already reviewed this provider.")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	reviewer, err := s.repo.User().GetByID(ctx, principal.UserID)
	if err == nil {
		review.User = reviewer
	}

	s.logger.Info("Review created", "review_id", review.ID, "provider_id", providerID, "rating", review.Rating)

	data := events.ReviewEventData{
		ReviewID:       review.ID,
		ProviderID:     providerID,
		ProviderUserID: provider.UserID,
		Rating:         review.Rating,
	}
	if review.User != nil {
		data.ReviewerName = review.User.FullName()
	}
	events.PublishSafe(ctx, s.publisher, s.logger, events.ReviewCreated, data)

	return models.NewReviewView(review), nil
}

func (s *reviewService) Update(ctx context.Context, principal Principal, id uuid.UUID, req *ReviewUpdateRequest) (*models.ReviewView, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	review, err := s.authoredReview(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.ReviewText != nil {
		review.ReviewText = req.ReviewText
	}

	if err := s.repo.Review().Update(ctx, review); err != nil {
		return nil, translateRepoError(err, ErrReviewNotFound, "update review")
	}
	return models.NewReviewView(review), nil
}

func (s *reviewService) Delete(ctx context.Context, principal Principal, id uuid.UUID) error {
	if _, err := s.authoredReview(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Review().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrReviewNotFound, "delete review")
	}
	return nil
}

func (s *reviewService) authoredReview(ctx context.Context, principal Principal, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrReviewNotFound, "get review")
	}
	if err := Authorize(principal, ActionWrite, ReviewOwnership(review)); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) viewableProvider(ctx context.Context, principal *Principal, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.repo.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}
	if !CanViewProvider(principal, provider) {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}
