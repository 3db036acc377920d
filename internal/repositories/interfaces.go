package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// ProviderSort selects the ordering of provider listings
type ProviderSort string

const (
	SortRelevance  ProviderSort = "relevance"
	SortRating     ProviderSort = "rating"
	SortPopularity ProviderSort = "popularity"
	SortNewest     ProviderSort = "newest"
	SortDistance   ProviderSort = "distance"
	SortReviews    ProviderSort = "reviews"
)

// ParseProviderSort maps a query value to a sort mode; unknown values fall back to relevance
func ParseProviderSort(value string) ProviderSort {
	switch s := ProviderSort(value); s {
	case SortRating, SortPopularity, SortNewest, SortDistance, SortReviews:
		return s
	}
	return SortRelevance
}

type ProviderFilters struct {
	ApprovedOnly bool
	Query        string // matched against name, description and address
	Category     string
	Subcategory  string
	Location     string // matched against address
	Box          *BoundingBox

	// Parsed and carried but not applied until review aggregation exists
	MinRating  *float64
	MinReviews *int
	MaxPrice   *float64

	Sort     ProviderSort
	Ordering string // explicit column ordering such as "-created_at"; overrides Sort
	Limit    int
	Offset   int
}

type BookingFilters struct {
	UserID     *uuid.UUID // bookings made by this user
	ProviderID *uuid.UUID // bookings for services of this provider
	Status     *models.BookingStatus
}

type ReviewFilters struct {
	Limit  int
	Offset int
}

type NotificationFilters struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type ChatFilters struct {
	Limit  int
	Offset int
}

// ===== REPOSITORY INTERFACES =====

type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	// GetByIDWithDetails preloads photos, certificates and services with pricings
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	Update(ctx context.Context, provider *models.Provider) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews atomically adds one to the view counter
	IncrementViews(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ProviderFilters) ([]*models.Provider, int64, error)
	ListForAdmin(ctx context.Context) ([]*models.ProviderAdminItem, error)

	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) error

	AddPhoto(ctx context.Context, photo *models.ProviderPhoto) error
	AddCertificate(ctx context.Context, certificate *models.ProviderCertificate) error
}

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	// GetByID preloads the owning provider
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PricingRepository interface {
	Create(ctx context.Context, pricing *models.Pricing) error
	// GetByID preloads the service and its provider
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pricing, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Pricing, error)
	Update(ctx context.Context, pricing *models.Pricing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID preloads user, pricing and service with its provider
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// List orders by creation time, newest first
	List(ctx context.Context, filters BookingFilters) ([]*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewRepository interface {
	// Create returns ErrDuplicate when the user already reviewed the provider
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, filters ReviewFilters) ([]*models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	// Create returns ErrDuplicate on a name clash
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, filters NotificationFilters) ([]*models.Notification, int64, error)
	// MarkRead returns ErrNotFound unless the notification belongs to userID
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	// ListForUser returns messages sent or received by userID, newest first
	ListForUser(ctx context.Context, userID uuid.UUID, filters ChatFilters) ([]*models.Chat, int64, error)
	// ListConversation returns the thread between two users about one provider, oldest first
	ListConversation(ctx context.Context, userID, otherID, providerID uuid.UUID) ([]*models.Chat, error)
	// MarkRead returns ErrNotFound unless receiverID received the message
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	// ListLapsed returns active subscriptions whose end date is before day
	ListLapsed(ctx context.Context, day time.Time) ([]*models.Subscription, error)
	// CountActive counts active subscriptions of a provider still running on day
	CountActive(ctx context.Context, providerID uuid.UUID, day time.Time) (int64, error)
}

type SearchAlertRepository interface {
	Create(ctx context.Context, alert *models.SearchAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SearchAlert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SearchAlert, error)
	Update(ctx context.Context, alert *models.SearchAlert) error
	Delete(ctx context.Context, id uuid.UUID) error
}
