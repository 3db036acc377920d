package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type searchAlertService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSearchAlertService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) SearchAlertService {
	return &searchAlertService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *searchAlertService) List(ctx context.Context, userID uuid.UUID) ([]*models.SearchAlert, error) {
	alerts, err := s.repo.SearchAlert().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list search alerts: %w", err)
	}
	return alerts, nil
}

func (s *searchAlertService) Create(ctx context.Context, userID uuid.UUID, req *SearchAlertRequest) (*models.SearchAlert, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	query, err := encodeSearchQuery(req.SearchQuery)
	if err != nil {
		return nil, err
	}

	alert := &models.SearchAlert{
		UserID:      userID,
		AlertName:   req.AlertName,
		SearchQuery: query,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.repo.SearchAlert().Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create search alert: %w", err)
	}
	return alert, nil
}

func (s *searchAlertService) Update(ctx context.Context, principal Principal, id uuid.UUID, req *SearchAlertUpdateRequest) (*models.SearchAlert, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	alert, err := s.ownedAlert(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if req.AlertName != nil {
		alert.AlertName = *req.AlertName
	}
	if req.SearchQuery != nil {
		if alert.SearchQuery, err = encodeSearchQuery(req.SearchQuery); err != nil {
			return nil, err
		}
	}
	alert.IsActive = boolOr(req.IsActive, alert.IsActive)

	if err := s.repo.SearchAlert().Update(ctx, alert); err != nil {
		return nil, translateRepoError(err, ErrSearchAlertNotFound, "update search alert")
	}
	return alert, nil
}

func (s *searchAlertService) Delete(ctx context.Context, principal Principal, id uuid.UUID) error {
	if _, err := s.ownedAlert(ctx, principal, id); err != nil {
		return err
	}
	return translateRepoError(s.repo.SearchAlert().Delete(ctx, id), ErrSearchAlertNotFound, "delete search alert")
}

func (s *searchAlertService) ownedAlert(ctx context.Context, principal Principal, id uuid.UUID) (*models.SearchAlert, error) {
	alert, err := s.repo.SearchAlert().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrSearchAlertNotFound, "get search alert")
	}
	if err := Authorize(principal, ActionWrite, SearchAlertOwnership(alert)); err != nil {
		return nil, ErrSearchAlertNotFound
	}
	return alert, nil
}

func encodeSearchQuery(query map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(query)
	if err != nil {
		return nil, fieldError("search_query", "Value must be a JSON object.", "json")
	}
	return datatypes.JSON(raw), nil
}
