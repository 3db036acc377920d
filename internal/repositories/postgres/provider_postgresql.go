package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

type ProviderPostgreSQL struct {
	db *gorm.DB
}

func NewProviderPostgreSQL(db *gorm.DB) repositories.ProviderRepository {
	return &ProviderPostgreSQL{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (p *ProviderPostgreSQL) Create(ctx context.Context, provider *models.Provider) error {
	if err := p.db.WithContext(ctx).Omit(clause.Associations).Create(provider).Error; err != nil {
		return handleDBError(err, "create provider")
	}
	return nil
}

func (p *ProviderPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := p.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get provider by id")
	}
	return &provider, nil
}

func (p *ProviderPostgreSQL) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := p.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, uploaded_at ASC")
		}).
		Preload("Certificates", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at DESC")
		}).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Services.Pricings").
		First(&provider, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get provider with details")
	}
	return &provider, nil
}

func (p *ProviderPostgreSQL) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return nil, handleDBError(err, "get provider by user")
	}
	return &provider, nil
}

func (p *ProviderPostgreSQL) Update(ctx context.Context, provider *models.Provider) error {
	if err := p.db.WithContext(ctx).Omit(clause.Associations).Save(provider).Error; err != nil {
		return handleDBError(err, "update provider")
	}
	return nil
}

func (p *ProviderPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.db.WithContext(ctx).Delete(&models.Provider{}, "id = ?", id)
	return requireAffected(result, "delete provider")
}

// ===== QUERY OPERATIONS =====

// IncrementViews bumps the counter in SQL so concurrent readers never lose an increment
func (p *ProviderPostgreSQL) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := p.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		UpdateColumn("profile_views", gorm.Expr("profile_views + ?", 1))
	return requireAffected(result, "increment provider views")
}

func (p *ProviderPostgreSQL) List(ctx context.Context, filters repositories.ProviderFilters) ([]*models.Provider, int64, error) {
	var providers []*models.Provider
	var total int64

	query := ApplyProviderFilters(p.db.WithContext(ctx).Model(&models.Provider{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count providers")
	}

	query = ApplyPagination(query.Order(ProviderOrderClause(filters)), filters.Limit, filters.Offset)
	if err := query.Find(&providers).Error; err != nil {
		return nil, 0, handleDBError(err, "list providers")
	}

	return providers, total, nil
}

func (p *ProviderPostgreSQL) ListForAdmin(ctx context.Context) ([]*models.ProviderAdminItem, error) {
	var items []*models.ProviderAdminItem

	if err := p.db.WithContext(ctx).
		Table("providers").
		Select("providers.id, providers.name, providers.category, providers.subcategory, providers.address, " +
			"providers.is_approved, providers.subscription_status, providers.profile_views, providers.created_at, " +
			"users.email AS user_email, TRIM(CONCAT_WS(' ', users.first_name, users.last_name)) AS user_name, " +
			"(SELECT COUNT(*) FROM services WHERE services.provider_id = providers.id) AS services_count").
		Joins("LEFT JOIN users ON users.id = providers.user_id").
		Order("providers.created_at DESC").
		Scan(&items).Error; err != nil {
		return nil, handleDBError(err, "list providers for admin")
	}

	return items, nil
}

// ===== STATUS OPERATIONS =====

func (p *ProviderPostgreSQL) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	result := p.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	return requireAffected(result, "set provider approval")
}

func (p *ProviderPostgreSQL) SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) error {
	result := p.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Update("subscription_status", status)
	return requireAffected(result, "set provider subscription status")
}

// ===== MEDIA =====

func (p *ProviderPostgreSQL) AddPhoto(ctx context.Context, photo *models.ProviderPhoto) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if photo.IsPrimary {
			if err := tx.Model(&models.ProviderPhoto{}).
				Where("provider_id = ? AND is_primary = ?", photo.ProviderID, true).
				Update("is_primary", false).Error; err != nil {
				return handleDBError(err, "reset primary photo")
			}
		}
		if err := tx.Create(photo).Error; err != nil {
			return handleDBError(err, "add provider photo")
		}
		return nil
	})
}

func (p *ProviderPostgreSQL) AddCertificate(ctx context.Context, certificate *models.ProviderCertificate) error {
	if err := p.db.WithContext(ctx).Create(certificate).Error; err != nil {
		return handleDBError(err, "add provider certificate")
	}
	return nil
}
