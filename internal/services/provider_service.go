package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type providerService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProviderService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ProviderService {
	return &providerService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== LISTING & SEARCH =====

func (s *providerService) List(ctx context.Context, params ProviderListParams, page PageRequest) ([]*models.Provider, int64, error) {
	filters := repositories.ProviderFilters{
		ApprovedOnly: true,
		Query:        strings.TrimSpace(params.Search),
		Category:     params.Category,
		Subcategory:  params.Subcategory,
		Ordering:     params.Ordering,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	if filters.Ordering == "" {
		filters.Ordering = "-profile_views"
	}

	providers, total, err := s.repo.Provider().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, total, nil
}

func (s *providerService) Search(ctx context.Context, params SearchParams, page PageRequest) ([]*models.Provider, int64, error) {
	filters := BuildSearchFilters(params)
	filters.Limit = page.Limit
	filters.Offset = page.Offset

	s.logger.Debug("Searching providers",
		"query", filters.Query,
		"category", filters.Category,
		"sort", filters.Sort,
		"has_box", filters.Box != nil)

	providers, total, err := s.repo.Provider().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search providers: %w", err)
	}
	return providers, total, nil
}

// BuildSearchFilters turns raw search parameters into repository filters.
// Unparseable numbers are dropped; the box needs lat, lng and a valid radius.
func BuildSearchFilters(params SearchParams) repositories.ProviderFilters {
	filters := repositories.ProviderFilters{
		ApprovedOnly: true,
		Query:        strings.TrimSpace(params.Query),
		Category:     params.Category,
		Subcategory:  params.Subcategory,
		Location:     strings.TrimSpace(params.Location),
		Sort:         repositories.ParseProviderSort(params.Sort),
	}

	if params.Lat != "" && params.Lng != "" {
		lat, latErr := strconv.ParseFloat(params.Lat, 64)
		lng, lngErr := strconv.ParseFloat(params.Lng, 64)
		radius, radiusErr := repositories.DefaultSearchRadiusKm, error(nil)
		if params.Radius != "" {
			radius, radiusErr = strconv.ParseFloat(params.Radius, 64)
		}
		if latErr == nil && lngErr == nil && radiusErr == nil {
			box := repositories.NewBoundingBox(lat, lng, radius)
			filters.Box = &box
		}
	}

	if v, err := strconv.ParseFloat(params.MinRating, 64); err == nil {
		filters.MinRating = &v
	}
	if v, err := strconv.Atoi(params.MinReviews); err == nil {
		filters.MinReviews = &v
	}
	if v, err := strconv.ParseFloat(params.MaxPrice, 64); err == nil {
		filters.MaxPrice = &v
	}

	return filters
}

// ===== PROFILE CRUD =====

func (s *providerService) Create(ctx context.Context, principal Principal, req *ProviderRequest) (*models.Provider, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	provider := &models.Provider{UserID: principal.UserID}
	applyProviderUpdate(provider, req.AsUpdate())
	provider.ProfileViews = 1

	if err := s.repo.Provider().Create(ctx, provider); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("provider", "A provider profile already exists for this user.")
		}
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	s.logger.Info("Provider created", "provider_id", provider.ID, "user_id", principal.UserID)
	return provider, nil
}

func (s *providerService) GetDetail(ctx context.Context, principal *Principal, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.repo.Provider().GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}
	if !CanViewProvider(principal, provider) {
		return nil, ErrProviderNotFound
	}

	if err := s.repo.Provider().IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to count profile view: %w", err)
	}
	provider.ProfileViews++

	return provider, nil
}

func (s *providerService) Update(ctx context.Context, principal Principal, id uuid.UUID, req *ProviderUpdateRequest) (*models.Provider, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	provider, err := s.visibleProvider(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(principal, ActionWrite, ProviderOwnership(provider)); err != nil {
		return nil, err
	}

	applyProviderUpdate(provider, req)
	if err := s.repo.Provider().Update(ctx, provider); err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "update provider")
	}

	s.logger.Info("Provider updated", "provider_id", id)
	return provider, nil
}

func (s *providerService) Delete(ctx context.Context, principal Principal, id uuid.UUID) error {
	provider, err := s.visibleProvider(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := Authorize(principal, ActionWrite, ProviderOwnership(provider)); err != nil {
		return err
	}

	if err := s.repo.Provider().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrProviderNotFound, "delete provider")
	}

	s.logger.Info("Provider deleted", "provider_id", id)
	return nil
}

// visibleProvider loads a provider the principal may see; hidden ones read as missing
func (s *providerService) visibleProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.repo.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}
	if !CanViewProvider(&principal, provider) {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// ===== OWN PROFILE =====

func (s *providerService) GetMine(ctx context.Context, principal Principal) (*models.Provider, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, NewPermissionError(principal.UserID, uuid.Nil, "provider", "read", "Only provider users can access this endpoint.")
	}

	provider, err := s.repo.Provider().GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}
	detailed, err := s.repo.Provider().GetByIDWithDetails(ctx, provider.ID)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}
	return detailed, nil
}

func (s *providerService) UpsertMine(ctx context.Context, principal Principal, req *ProviderRequest) (*models.Provider, bool, error) {
	if err := RequireRole(principal, models.RoleProvider); err != nil {
		return nil, false, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, false, errs
	}

	var (
		provider *models.Provider
		created  bool
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		existing, err := tx.Provider().GetByUserID(ctx, principal.UserID)
		switch {
		case err == nil:
			provider = existing
			applyProviderUpdate(provider, req.AsUpdate())
			return tx.Provider().Update(ctx, provider)
		case repositories.IsNotFoundError(err):
			provider = &models.Provider{UserID: principal.UserID}
			applyProviderUpdate(provider, req.AsUpdate())
			created = true
			return tx.Provider().Create(ctx, provider)
		default:
			return err
		}
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, false, NewConflictError("provider", "A provider profile already exists for this user.")
		}
		return nil, false, fmt.Errorf("failed to save provider profile: %w", err)
	}

	s.logger.Info("Own provider profile saved", "provider_id", provider.ID, "created", created)
	return provider, created, nil
}

func (s *providerService) EnsureProfile(ctx context.Context, user *models.User) (*models.Provider, error) {
	return ensureProviderProfile(ctx, s.repo, user)
}

// ensureProviderProfile is idempotent; a concurrent insert that wins the unique
// user constraint is resolved by reading the winner back
func ensureProviderProfile(ctx context.Context, repo repositories.Repository, user *models.User) (*models.Provider, error) {
	provider, err := repo.Provider().GetByUserID(ctx, user.ID)
	if err == nil {
		return provider, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up provider profile: %w", err)
	}

	provider = models.NewDefaultProvider(user)
	if err := repo.Provider().Create(ctx, provider); err != nil {
		if repositories.IsDuplicateError(err) {
			return repo.Provider().GetByUserID(ctx, user.ID)
		}
		return nil, fmt.Errorf("failed to create provider profile: %w", err)
	}
	return provider, nil
}

// ===== MEDIA =====

func (s *providerService) AddPhoto(ctx context.Context, principal Principal, providerID uuid.UUID, req *ProviderPhotoRequest) (*models.ProviderPhoto, error) {
	if _, err := s.ownedProvider(ctx, principal, providerID); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	photo := &models.ProviderPhoto{
		ProviderID: providerID,
		PhotoURL:   req.PhotoURL,
		IsPrimary:  req.IsPrimary,
	}
	if err := s.repo.Provider().AddPhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	return photo, nil
}

func (s *providerService) AddCertificate(ctx context.Context, principal Principal, providerID uuid.UUID, req *ProviderCertificateRequest) (*models.ProviderCertificate, error) {
	if _, err := s.ownedProvider(ctx, principal, providerID); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	issued, err := parseOptionalDate(req.IssuedDate)
	if err != nil {
		return nil, fieldError("issued_date", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		return nil, fieldError("expiry_date", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}

	certificate := &models.ProviderCertificate{
		ProviderID:      providerID,
		CertificateName: req.CertificateName,
		CertificateURL:  req.CertificateURL,
		IssuedBy:        req.IssuedBy,
		IssuedDate:      issued,
		ExpiryDate:      expiry,
	}
	if err := s.repo.Provider().AddCertificate(ctx, certificate); err != nil {
		return nil, fmt.Errorf("failed to add certificate: %w", err)
	}
	return certificate, nil
}

// ownedProvider conceals providers the principal does not own
func (s *providerService) ownedProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.repo.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderConcealed, "get provider")
	}
	if !ProviderOwnership(provider).OwnedBy(principal.UserID) {
		return nil, ErrProviderConcealed
	}
	return provider, nil
}

func applyProviderUpdate(p *models.Provider, req *ProviderUpdateRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Subcategory != nil {
		p.Subcategory = req.Subcategory
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.ContactEmail != nil {
		p.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		p.ContactPhone = req.ContactPhone
	}
	if req.Website != nil {
		p.Website = req.Website
	}
	if req.PricingInfo != nil {
		p.PricingInfo = req.PricingInfo
	}
}
