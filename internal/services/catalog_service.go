package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// catalogService manages a provider's own services and their pricing
type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ===== SERVICES =====

func (s *catalogService) ListServices(ctx context.Context, principal Principal) ([]*models.ServiceView, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}

	provider, err := s.repo.Provider().GetByUserID(ctx, principal.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return []*models.ServiceView{}, nil
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	list, err := s.repo.Service().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	views := make([]*models.ServiceView, 0, len(list))
	for _, svc := range list {
		svc.Provider = provider
		views = append(views, models.NewServiceView(svc))
	}
	return views, nil
}

func (s *catalogService) CreateService(ctx context.Context, principal Principal, req *ServiceRequest) (*models.ServiceView, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}

	service := &models.Service{
		Name:            req.Name,
		Description:     req.Description,
		ServiceType:     models.ServiceType(stringOr(string(req.ServiceType), string(models.ServiceIndividual))),
		DurationHours:   intOr(req.DurationHours, 1),
		DurationMinutes: intOr(req.DurationMinutes, 0),
		MaxParticipants: intOr(req.MaxParticipants, 1),
		IsActive:        boolOr(req.IsActive, true),
	}

	bv := s.validator.GetBusinessValidator()
	errs := append(bv.Validate(req), bv.ValidateServiceDuration(service.DurationHours, service.DurationMinutes)...)
	if len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, translateRepoError(err, ErrUserNotFound, "get user")
	}
	provider, err := ensureProviderProfile(ctx, s.repo, user)
	if err != nil {
		return nil, err
	}

	service.ProviderID = provider.ID
	if err := s.repo.Service().Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	service.Provider = provider

	s.logger.Info("Service created", "service_id", service.ID, "provider_id", provider.ID)
	return models.NewServiceView(service), nil
}

func (s *catalogService) GetService(ctx context.Context, principal Principal, id uuid.UUID) (*models.ServiceView, error) {
	service, err := s.ownedService(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return models.NewServiceView(service), nil
}

func (s *catalogService) UpdateService(ctx context.Context, principal Principal, id uuid.UUID, req *ServiceUpdateRequest) (*models.ServiceView, error) {
	service, err := s.ownedService(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.ServiceType != nil {
		service.ServiceType = *req.ServiceType
	}
	service.DurationHours = intOr(req.DurationHours, service.DurationHours)
	service.DurationMinutes = intOr(req.DurationMinutes, service.DurationMinutes)
	service.MaxParticipants = intOr(req.MaxParticipants, service.MaxParticipants)
	service.IsActive = boolOr(req.IsActive, service.IsActive)

	// duration rules apply to the merged record
	bv := s.validator.GetBusinessValidator()
	errs := append(bv.Validate(req), bv.ValidateServiceDuration(service.DurationHours, service.DurationMinutes)...)
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Service().Update(ctx, service); err != nil {
		return nil, translateRepoError(err, ErrServiceNotFound, "update service")
	}
	return models.NewServiceView(service), nil
}

func (s *catalogService) DeleteService(ctx context.Context, principal Principal, id uuid.UUID) error {
	if _, err := s.ownedService(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Service().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrServiceNotFound, "delete service")
	}
	s.logger.Info("Service deleted", "service_id", id)
	return nil
}

// ownedService loads a service and reports it missing unless the principal owns it
func (s *catalogService) ownedService(ctx context.Context, principal Principal, id uuid.UUID) (*models.Service, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}
	service, err := s.repo.Service().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrServiceNotFound, "get service")
	}
	if !ServiceOwnership(service).OwnedBy(principal.UserID) {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// ===== PRICING =====

func (s *catalogService) ListPricing(ctx context.Context, principal Principal, serviceID uuid.UUID) ([]*models.PricingView, error) {
	service, err := s.ownedService(ctx, principal, serviceID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Pricing().ListByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}

	now := s.now()
	views := make([]*models.PricingView, 0, len(list))
	for _, p := range list {
		p.Service = service
		views = append(views, models.NewPricingView(p, now))
	}
	return views, nil
}

func (s *catalogService) CreatePricing(ctx context.Context, principal Principal, serviceID uuid.UUID, req *PricingRequest) (*models.PricingView, error) {
	service, err := s.ownedService(ctx, principal, serviceID)
	if err != nil {
		return nil, err
	}

	pricing := &models.Pricing{
		ServiceID:   serviceID,
		PricingType: models.PricingType(stringOr(string(req.PricingType), string(models.PricingPerSession))),
		Currency:    stringOr(req.Currency, models.DefaultCurrency),
		Description: req.Description,
		MinSessions: intOr(req.MinSessions, 1),
		MaxSessions: req.MaxSessions,
		IsActive:    boolOr(req.IsActive, true),
	}
	if req.Price != nil {
		pricing.Price = *req.Price
	}

	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	if pricing.ValidFrom, err = parseOptionalDate(req.ValidFrom); err != nil {
		return nil, fieldError("valid_from", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}
	if pricing.ValidUntil, err = parseOptionalDate(req.ValidUntil); err != nil {
		return nil, fieldError("valid_until", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}
	if errs := s.validatePricing(pricing); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Pricing().Create(ctx, pricing); err != nil {
		return nil, fmt.Errorf("failed to create pricing: %w", err)
	}
	pricing.Service = service

	s.logger.Info("Pricing created", "pricing_id", pricing.ID, "service_id", serviceID)
	return models.NewPricingView(pricing, s.now()), nil
}

func (s *catalogService) GetPricing(ctx context.Context, principal Principal, id uuid.UUID) (*models.PricingView, error) {
	pricing, err := s.ownedPricing(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return models.NewPricingView(pricing, s.now()), nil
}

func (s *catalogService) UpdatePricing(ctx context.Context, principal Principal, id uuid.UUID, req *PricingUpdateRequest) (*models.PricingView, error) {
	pricing, err := s.ownedPricing(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	if req.PricingType != nil {
		pricing.PricingType = *req.PricingType
	}
	if req.Price != nil {
		pricing.Price = *req.Price
	}
	if req.Currency != nil {
		pricing.Currency = *req.Currency
	}
	if req.Description != nil {
		pricing.Description = req.Description
	}
	pricing.MinSessions = intOr(req.MinSessions, pricing.MinSessions)
	if req.MaxSessions != nil {
		pricing.MaxSessions = req.MaxSessions
	}
	pricing.IsActive = boolOr(req.IsActive, pricing.IsActive)
	if req.ValidFrom != nil {
		if pricing.ValidFrom, err = parseOptionalDate(req.ValidFrom); err != nil {
			return nil, fieldError("valid_from", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
		}
	}
	if req.ValidUntil != nil {
		if pricing.ValidUntil, err = parseOptionalDate(req.ValidUntil); err != nil {
			return nil, fieldError("valid_until", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
		}
	}

	if errs := s.validatePricing(pricing); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Pricing().Update(ctx, pricing); err != nil {
		return nil, translateRepoError(err, ErrPricingNotFound, "update pricing")
	}
	return models.NewPricingView(pricing, s.now()), nil
}

func (s *catalogService) DeletePricing(ctx context.Context, principal Principal, id uuid.UUID) error {
	if _, err := s.ownedPricing(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Pricing().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrPricingNotFound, "delete pricing")
	}
	s.logger.Info("Pricing deleted", "pricing_id", id)
	return nil
}

func (s *catalogService) ownedPricing(ctx context.Context, principal Principal, id uuid.UUID) (*models.Pricing, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}
	pricing, err := s.repo.Pricing().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrPricingNotFound, "get pricing")
	}
	if !PricingOwnership(pricing).OwnedBy(principal.UserID) {
		return nil, ErrPricingNotFound
	}
	return pricing, nil
}

func (s *catalogService) validatePricing(p *models.Pricing) validator.ValidationErrors {
	return s.validator.GetBusinessValidator().ValidatePricingRules(
		p.Price, p.MinSessions, p.MaxSessions, datePtrTime(p.ValidFrom), datePtrTime(p.ValidUntil))
}
