package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole
	Query  string // Search query for name or email
	Limit  int    // Page size, 0 means no limit
	Offset int
}

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// List orders by date joined, newest first
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}
