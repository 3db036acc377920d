package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

// ===== SERVICES =====

type ServicePostgreSQL struct {
	db *gorm.DB
}

func NewServicePostgreSQL(db *gorm.DB) repositories.ServiceRepository {
	return &ServicePostgreSQL{db: db}
}

func (s *ServicePostgreSQL) Create(ctx context.Context, service *models.Service) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(service).Error; err != nil {
		return handleDBError(err, "create service")
	}
	return nil
}

func (s *ServicePostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).
		Preload("Provider").
		First(&service, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get service by id")
	}
	return &service, nil
}

func (s *ServicePostgreSQL) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Service, error) {
	var services []*models.Service
	if err := s.db.WithContext(ctx).
		Preload("Provider").
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&services).Error; err != nil {
		return nil, handleDBError(err, "list services by provider")
	}
	return services, nil
}

func (s *ServicePostgreSQL) Update(ctx context.Context, service *models.Service) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(service).Error; err != nil {
		return handleDBError(err, "update service")
	}
	return nil
}

func (s *ServicePostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	return requireAffected(result, "delete service")
}

// ===== PRICINGS =====

type PricingPostgreSQL struct {
	db *gorm.DB
}

func NewPricingPostgreSQL(db *gorm.DB) repositories.PricingRepository {
	return &PricingPostgreSQL{db: db}
}

func (p *PricingPostgreSQL) Create(ctx context.Context, pricing *models.Pricing) error {
	if err := p.db.WithContext(ctx).Omit(clause.Associations).Create(pricing).Error; err != nil {
		return handleDBError(err, "create pricing")
	}
	return nil
}

func (p *PricingPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Pricing, error) {
	var pricing models.Pricing
	if err := p.db.WithContext(ctx).
		Preload("Service.Provider").
		First(&pricing, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get pricing by id")
	}
	return &pricing, nil
}

func (p *PricingPostgreSQL) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Pricing, error) {
	var pricings []*models.Pricing
	if err := p.db.WithContext(ctx).
		Preload("Service").
		Where("service_id = ?", serviceID).
		Order("created_at ASC").
		Find(&pricings).Error; err != nil {
		return nil, handleDBError(err, "list pricings by service")
	}
	return pricings, nil
}

func (p *PricingPostgreSQL) Update(ctx context.Context, pricing *models.Pricing) error {
	if err := p.db.WithContext(ctx).Omit(clause.Associations).Save(pricing).Error; err != nil {
		return handleDBError(err, "update pricing")
	}
	return nil
}

func (p *PricingPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.db.WithContext(ctx).Delete(&models.Pricing{}, "id = ?", id)
	return requireAffected(result, "delete pricing")
}
