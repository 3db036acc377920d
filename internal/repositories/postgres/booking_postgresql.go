package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

type BookingPostgreSQL struct {
	db *gorm.DB
}

func NewBookingPostgreSQL(db *gorm.DB) repositories.BookingRepository {
	return &BookingPostgreSQL{db: db}
}

func (b *BookingPostgreSQL) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Pricing").Preload("Service.Provider")
}

func (b *BookingPostgreSQL) Create(ctx context.Context, booking *models.Booking) error {
	if err := b.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error; err != nil {
		return handleDBError(err, "create booking")
	}
	return nil
}

func (b *BookingPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := b.withDetails(b.db.WithContext(ctx)).First(&booking, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get booking by id")
	}
	return &booking, nil
}

// List returns bookings made by UserID or received through ProviderID's services.
// When both are set a booking matching either side is returned.
func (b *BookingPostgreSQL) List(ctx context.Context, filters repositories.BookingFilters) ([]*models.Booking, error) {
	var bookings []*models.Booking

	query := b.withDetails(b.db.WithContext(ctx).Model(&models.Booking{}))
	query = ApplyBookingFilters(query, filters)

	if err := query.Order("bookings.created_at DESC").Find(&bookings).Error; err != nil {
		return nil, handleDBError(err, "list bookings")
	}
	return bookings, nil
}

func (b *BookingPostgreSQL) Update(ctx context.Context, booking *models.Booking) error {
	if err := b.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error; err != nil {
		return handleDBError(err, "update booking")
	}
	return nil
}

func (b *BookingPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := b.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	return requireAffected(result, "delete booking")
}

// ApplyBookingFilters scopes a booking query to the caller's side of the marketplace
func ApplyBookingFilters(query *gorm.DB, filters repositories.BookingFilters) *gorm.DB {
	switch {
	case filters.UserID != nil && filters.ProviderID != nil:
		query = query.Where("(bookings.user_id = ? OR bookings.service_id IN (?))",
			*filters.UserID, providerServiceIDs(query, *filters.ProviderID))
	case filters.UserID != nil:
		query = query.Where("bookings.user_id = ?", *filters.UserID)
	case filters.ProviderID != nil:
		query = query.Where("bookings.service_id IN (?)", providerServiceIDs(query, *filters.ProviderID))
	}

	if filters.Status != nil {
		query = query.Where("bookings.status = ?", *filters.Status)
	}
	return query
}

func providerServiceIDs(query *gorm.DB, providerID uuid.UUID) *gorm.DB {
	return query.Session(&gorm.Session{NewDB: true}).
		Model(&models.Service{}).
		Select("id").
		Where("provider_id = ?", providerID)
}
