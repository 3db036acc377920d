package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type RefreshTokenRequest = validator.RefreshTokenRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type PasswordResetRequest = validator.PasswordResetRequest
type PasswordResetConfirmRequest = validator.PasswordResetConfirmRequest

type ProviderRequest = validator.ProviderRequest
type ProviderUpdateRequest = validator.ProviderUpdateRequest
type ProviderPhotoRequest = validator.ProviderPhotoRequest
type ProviderCertificateRequest = validator.ProviderCertificateRequest

type ServiceRequest = validator.ServiceRequest
type ServiceUpdateRequest = validator.ServiceUpdateRequest
type PricingRequest = validator.PricingRequest
type PricingUpdateRequest = validator.PricingUpdateRequest

type BookingRequest = validator.BookingRequest
type BookingUpdateRequest = validator.BookingUpdateRequest

type ReviewRequest = validator.ReviewRequest
type ReviewUpdateRequest = validator.ReviewUpdateRequest
type CategoryRequest = validator.CategoryRequest
type ChatRequest = validator.ChatRequest
type SubscriptionRequest = validator.SubscriptionRequest
type SearchAlertRequest = validator.SearchAlertRequest
type SearchAlertUpdateRequest = validator.SearchAlertUpdateRequest

// PageRequest is a resolved limit/offset window
type PageRequest struct {
	Limit  int
	Offset int
}

type AuthResponse struct {
	User   *models.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// ProviderListParams are the filters of the plain provider listing
type ProviderListParams struct {
	Category    string
	Subcategory string
	Search      string
	Ordering    string
}

// SearchParams holds raw search query values; numeric values that fail to parse are ignored
type SearchParams struct {
	Query       string
	Category    string
	Subcategory string
	Location    string
	Lat         string
	Lng         string
	Radius      string
	MinRating   string
	MinReviews  string
	MaxPrice    string
	Sort        string
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*TokenPair, error)
	// Authenticate resolves an access token to an active user
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
	VerifyEmail(ctx context.Context, userID uuid.UUID) error

	// RequestPasswordReset never reveals whether the email exists
	RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, req *PasswordResetConfirmRequest) error
}

type ProviderService interface {
	List(ctx context.Context, params ProviderListParams, page PageRequest) ([]*models.Provider, int64, error)
	Search(ctx context.Context, params SearchParams, page PageRequest) ([]*models.Provider, int64, error)
	Create(ctx context.Context, principal Principal, req *ProviderRequest) (*models.Provider, error)
	// GetDetail counts one profile view per call
	GetDetail(ctx context.Context, principal *Principal, id uuid.UUID) (*models.Provider, error)
	Update(ctx context.Context, principal Principal, id uuid.UUID, req *ProviderUpdateRequest) (*models.Provider, error)
	Delete(ctx context.Context, principal Principal, id uuid.UUID) error

	GetMine(ctx context.Context, principal Principal) (*models.Provider, error)
	// UpsertMine reports whether the profile was created
	UpsertMine(ctx context.Context, principal Principal, req *ProviderRequest) (*models.Provider, bool, error)
	// EnsureProfile creates the default profile for a provider account when absent
	EnsureProfile(ctx context.Context, user *models.User) (*models.Provider, error)

	AddPhoto(ctx context.Context, principal Principal, providerID uuid.UUID, req *ProviderPhotoRequest) (*models.ProviderPhoto, error)
	AddCertificate(ctx context.Context, principal Principal, providerID uuid.UUID, req *ProviderCertificateRequest) (*models.ProviderCertificate, error)
}

type CatalogService interface {
	ListServices(ctx context.Context, principal Principal) ([]*models.ServiceView, error)
	CreateService(ctx context.Context, principal Principal, req *ServiceRequest) (*models.ServiceView, error)
	GetService(ctx context.Context, principal Principal, id uuid.UUID) (*models.ServiceView, error)
	UpdateService(ctx context.Context, principal Principal, id uuid.UUID, req *ServiceUpdateRequest) (*models.ServiceView, error)
	DeleteService(ctx context.Context, principal Principal, id uuid.UUID) error

	ListPricing(ctx context.Context, principal Principal, serviceID uuid.UUID) ([]*models.PricingView, error)
	CreatePricing(ctx context.Context, principal Principal, serviceID uuid.UUID, req *PricingRequest) (*models.PricingView, error)
	GetPricing(ctx context.Context, principal Principal, id uuid.UUID) (*models.PricingView, error)
	UpdatePricing(ctx context.Context, principal Principal, id uuid.UUID, req *PricingUpdateRequest) (*models.PricingView, error)
	DeletePricing(ctx context.Context, principal Principal, id uuid.UUID) error
}

type BookingService interface {
	List(ctx context.Context, principal Principal, status *models.BookingStatus) ([]*models.BookingView, error)
	Create(ctx context.Context, principal Principal, req *BookingRequest) (*models.BookingView, error)
	Get(ctx context.Context, principal Principal, id uuid.UUID) (*models.BookingView, error)
	Update(ctx context.Context, principal Principal, id uuid.UUID, req *BookingUpdateRequest) (*models.BookingView, error)
	Delete(ctx context.Context, principal Principal, id uuid.UUID) error
}

type ReviewService interface {
	ListByProvider(ctx context.Context, principal *Principal, providerID uuid.UUID, page PageRequest) ([]*models.ReviewView, int64, error)
	Create(ctx context.Context, principal Principal, providerID uuid.UUID, req *ReviewRequest) (*models.ReviewView, error)
	Update(ctx context.Context, principal Principal, id uuid.UUID, req *ReviewUpdateRequest) (*models.ReviewView, error)
	Delete(ctx context.Context, principal Principal, id uuid.UUID) error
}

type CategoryService interface {
	List(ctx context.Context) ([]*models.CategoryView, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CategoryView, error)
	Create(ctx context.Context, principal Principal, req *CategoryRequest) (*models.CategoryView, error)
	Update(ctx context.Context, principal Principal, id uuid.UUID, req *CategoryRequest) (*models.CategoryView, error)
	Delete(ctx context.Context, principal Principal, id uuid.UUID) error
}

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page PageRequest) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Notify(ctx context.Context, userID uuid.UUID, title, message string) error
	// HandleEvent projects a domain event into in-app notifications
	HandleEvent(ctx context.Context, event events.Event) error
}

type ChatService interface {
	ListThreads(ctx context.Context, userID uuid.UUID, page PageRequest) ([]*models.Chat, int64, error)
	Conversation(ctx context.Context, userID, otherID, providerID uuid.UUID) ([]*models.Chat, error)
	Send(ctx context.Context, principal Principal, req *ChatRequest) (*models.Chat, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type SubscriptionService interface {
	List(ctx context.Context, principal Principal) ([]*models.Subscription, error)
	Create(ctx context.Context, principal Principal, req *SubscriptionRequest) (*models.Subscription, error)
	Cancel(ctx context.Context, principal Principal, id uuid.UUID) (*models.Subscription, error)
	// ExpireLapsed expires subscriptions past their end date and returns how many changed
	ExpireLapsed(ctx context.Context) (int, error)
}

type SearchAlertService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.SearchAlert, error)
	Create(ctx context.Context, userID uuid.UUID, req *SearchAlertRequest) (*models.SearchAlert, error)
	Update(ctx context.Context, principal Principal, id uuid.UUID, req *SearchAlertUpdateRequest) (*models.SearchAlert, error)
	Delete(ctx context.Context, principal Principal, id uuid.UUID) error
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListProviders(ctx context.Context) ([]*models.ProviderAdminItem, error)
	ApproveProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error)
	RejectProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error)
	ExportUsers(ctx context.Context) ([]byte, error)
	ExportProviders(ctx context.Context) ([]byte, error)
}

// ServiceManager owns every service instance
type ServiceManager interface {
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error

	User() UserService
	Provider() ProviderService
	Catalog() CatalogService
	Booking() BookingService
	Review() ReviewService
	Category() CategoryService
	Notification() NotificationService
	Chat() ChatService
	Subscription() SubscriptionService
	SearchAlert() SearchAlertService
	Admin() AdminService
	Dashboard() DashboardService
}
