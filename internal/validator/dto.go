package validator

import (
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

// ===== ACCOUNT REQUESTS =====

type RegisterRequest struct {
	Email           string          `json:"email" validate:"required,email,max=254"`
	Password        string          `json:"password" validate:"required"`
	PasswordConfirm string          `json:"password_confirm" validate:"required"`
	FirstName       string          `json:"first_name" validate:"required,max=150"`
	LastName        string          `json:"last_name" validate:"max=150"`
	Phone           *string         `json:"phone" validate:"omitempty,max=20"`
	UserType        models.UserRole `json:"user_type" validate:"omitempty,registrable_role"`
	FathersName     *string         `json:"fathers_name" validate:"omitempty,max=150"`
	DateOfBirth     *string         `json:"date_of_birth" validate:"omitempty,date_only"`
	SchoolName      *string         `json:"school_name" validate:"omitempty,max=255"`
	ClassName       *string         `json:"class_name" validate:"omitempty,max=50"`
	Address         *string         `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type ProfileUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	FathersName *string `json:"fathers_name" validate:"omitempty,max=150"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date_only"`
	SchoolName  *string `json:"school_name" validate:"omitempty,max=255"`
	ClassName   *string `json:"class_name" validate:"omitempty,max=50"`
	Address     *string `json:"address"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

// ===== PROVIDER REQUESTS =====

type ProviderRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  *string  `json:"description"`
	Category     string   `json:"category" validate:"required,max=100"`
	Subcategory  *string  `json:"subcategory" validate:"omitempty,max=100"`
	Address      string   `json:"address" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ContactEmail *string  `json:"contact_email" validate:"omitempty,email,max=254"`
	ContactPhone *string  `json:"contact_phone" validate:"omitempty,max=20"`
	Website      *string  `json:"website" validate:"omitempty,url,max=200"`
	PricingInfo  *string  `json:"pricing_info"`
}

type ProviderUpdateRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Subcategory  *string  `json:"subcategory" validate:"omitempty,max=100"`
	Address      *string  `json:"address" validate:"omitempty,min=1"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ContactEmail *string  `json:"contact_email" validate:"omitempty,email,max=254"`
	ContactPhone *string  `json:"contact_phone" validate:"omitempty,max=20"`
	Website      *string  `json:"website" validate:"omitempty,url,max=200"`
	PricingInfo  *string  `json:"pricing_info"`
}

type ProviderPhotoRequest struct {
	PhotoURL  string `json:"photo_url" validate:"required,url,max=500"`
	IsPrimary bool   `json:"is_primary"`
}

type ProviderCertificateRequest struct {
	CertificateName string  `json:"certificate_name" validate:"required,max=255"`
	CertificateURL  string  `json:"certificate_url" validate:"required,url,max=500"`
	IssuedBy        *string `json:"issued_by" validate:"omitempty,max=255"`
	IssuedDate      *string `json:"issued_date" validate:"omitempty,date_only"`
	ExpiryDate      *string `json:"expiry_date" validate:"omitempty,date_only"`
}

// ===== CATALOG REQUESTS =====

type ServiceRequest struct {
	Name            string             `json:"name" validate:"required,max=255"`
	Description     *string            `json:"description"`
	ServiceType     models.ServiceType `json:"service_type" validate:"omitempty,service_type"`
	DurationHours   *int               `json:"duration_hours" validate:"omitempty,min=0"`
	DurationMinutes *int               `json:"duration_minutes" validate:"omitempty,min=0"`
	MaxParticipants *int               `json:"max_participants" validate:"omitempty,min=1"`
	IsActive        *bool              `json:"is_active"`
}

type ServiceUpdateRequest struct {
	Name            *string             `json:"name" validate:"omitempty,min=1,max=255"`
	Description     *string             `json:"description"`
	ServiceType     *models.ServiceType `json:"service_type" validate:"omitempty,service_type"`
	DurationHours   *int                `json:"duration_hours" validate:"omitempty,min=0"`
	DurationMinutes *int                `json:"duration_minutes" validate:"omitempty,min=0"`
	MaxParticipants *int                `json:"max_participants" validate:"omitempty,min=1"`
	IsActive        *bool               `json:"is_active"`
}

type PricingRequest struct {
	PricingType models.PricingType `json:"pricing_type" validate:"omitempty,pricing_type"`
	Price       *float64           `json:"price" validate:"required"`
	Currency    string             `json:"currency" validate:"omitempty,currency"`
	Description *string            `json:"description" validate:"omitempty,max=255"`
	MinSessions *int               `json:"min_sessions" validate:"omitempty,min=1"`
	MaxSessions *int               `json:"max_sessions" validate:"omitempty,min=1"`
	IsActive    *bool              `json:"is_active"`
	ValidFrom   *string            `json:"valid_from" validate:"omitempty,date_only"`
	ValidUntil  *string            `json:"valid_until" validate:"omitempty,date_only"`
}

type PricingUpdateRequest struct {
	PricingType *models.PricingType `json:"pricing_type" validate:"omitempty,pricing_type"`
	Price       *float64            `json:"price"`
	Currency    *string             `json:"currency" validate:"omitempty,currency"`
	Description *string             `json:"description" validate:"omitempty,max=255"`
	MinSessions *int                `json:"min_sessions" validate:"omitempty,min=1"`
	MaxSessions *int                `json:"max_sessions" validate:"omitempty,min=1"`
	IsActive    *bool               `json:"is_active"`
	ValidFrom   *string             `json:"valid_from" validate:"omitempty,date_only"`
	ValidUntil  *string             `json:"valid_until" validate:"omitempty,date_only"`
}

// ===== BOOKING REQUESTS =====

type BookingRequest struct {
	Service         uuid.UUID  `json:"service" validate:"required"`
	Pricing         *uuid.UUID `json:"pricing"`
	BookingDate     string     `json:"booking_date" validate:"required,date_only"`
	BookingTime     string     `json:"booking_time" validate:"required,time_of_day"`
	DurationHours   *int       `json:"duration_hours" validate:"omitempty,min=0,max=24"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=0,max=59"`
	Participants    *int       `json:"participants" validate:"omitempty,min=1"`
	SpecialRequests *string    `json:"special_requests" validate:"omitempty,max=2000"`
}

type BookingUpdateRequest struct {
	Status          *models.BookingStatus `json:"status" validate:"omitempty,booking_status"`
	PaymentStatus   *models.PaymentStatus `json:"payment_status" validate:"omitempty,payment_status"`
	BookingDate     *string               `json:"booking_date" validate:"omitempty,date_only"`
	BookingTime     *string               `json:"booking_time" validate:"omitempty,time_of_day"`
	SpecialRequests *string               `json:"special_requests" validate:"omitempty,max=2000"`
}

// ===== COMMUNITY REQUESTS =====

type ReviewRequest struct {
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	ReviewText *string `json:"review_text" validate:"omitempty,max=5000"`
}

type ReviewUpdateRequest struct {
	Rating     *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	ReviewText *string `json:"review_text" validate:"omitempty,max=5000"`
}

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description *string    `json:"description"`
	Parent      *uuid.UUID `json:"parent"`
}

type ChatRequest struct {
	Receiver uuid.UUID `json:"receiver" validate:"required"`
	Provider uuid.UUID `json:"provider" validate:"required"`
	Message  string    `json:"message" validate:"required,max=5000"`
}

type SubscriptionRequest struct {
	PlanType    models.PlanType `json:"plan_type" validate:"required,plan_type"`
	Amount      float64         `json:"amount" validate:"required,gt=0"`
	Currency    string          `json:"currency" validate:"omitempty,currency"`
	PaymentID   *string         `json:"payment_id" validate:"omitempty,max=255"`
	StartDate   *string         `json:"start_date" validate:"omitempty,date_only"`
	AutoRenewal bool            `json:"auto_renewal"`
}

type SearchAlertRequest struct {
	AlertName   string                 `json:"alert_name" validate:"required,max=255"`
	SearchQuery map[string]interface{} `json:"search_query" validate:"required"`
	IsActive    *bool                  `json:"is_active"`
}

type SearchAlertUpdateRequest struct {
	AlertName   *string                `json:"alert_name" validate:"omitempty,min=1,max=255"`
	SearchQuery map[string]interface{} `json:"search_query"`
	IsActive    *bool                  `json:"is_active"`
}

// ===== FULL REPLACEMENT HELPERS =====

// AsUpdate turns a full PUT body into an update that sets every field
func (r *ProviderRequest) AsUpdate() *ProviderUpdateRequest {
	return &ProviderUpdateRequest{
		Name:         &r.Name,
		Description:  r.Description,
		Category:     &r.Category,
		Subcategory:  r.Subcategory,
		Address:      &r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Website:      r.Website,
		PricingInfo:  r.PricingInfo,
	}
}

func (r *ServiceRequest) AsUpdate() *ServiceUpdateRequest {
	update := &ServiceUpdateRequest{
		Name:            &r.Name,
		Description:     r.Description,
		DurationHours:   r.DurationHours,
		DurationMinutes: r.DurationMinutes,
		MaxParticipants: r.MaxParticipants,
		IsActive:        r.IsActive,
	}
	if r.ServiceType != "" {
		update.ServiceType = &r.ServiceType
	}
	return update
}

func (r *PricingRequest) AsUpdate() *PricingUpdateRequest {
	update := &PricingUpdateRequest{
		Price:       r.Price,
		Description: r.Description,
		MinSessions: r.MinSessions,
		MaxSessions: r.MaxSessions,
		IsActive:    r.IsActive,
		ValidFrom:   r.ValidFrom,
		ValidUntil:  r.ValidUntil,
	}
	if r.PricingType != "" {
		update.PricingType = &r.PricingType
	}
	if r.Currency != "" {
		update.Currency = &r.Currency
	}
	return update
}
