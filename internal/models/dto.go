package models

import (
	"time"
)

// AllModels lists every persisted entity in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Provider{},
		&ProviderPhoto{},
		&ProviderCertificate{},
		&Service{},
		&Pricing{},
		&Booking{},
		&Review{},
		&Notification{},
		&Chat{},
		&Subscription{},
		&SearchAlert{},
	}
}

// ===== READ MODELS =====

type ServiceView struct {
	*Service
	DurationDisplay string `json:"duration_display"`
	ProviderName    string `json:"provider_name,omitempty"`
}

func NewServiceView(s *Service) *ServiceView {
	view := &ServiceView{Service: s, DurationDisplay: s.DurationDisplay()}
	if s.Provider != nil {
		view.ProviderName = s.Provider.Name
	}
	return view
}

type PricingView struct {
	*Pricing
	ServiceName      string `json:"service_name,omitempty"`
	IsCurrentlyValid bool   `json:"is_currently_valid"`
}

func NewPricingView(p *Pricing, now time.Time) *PricingView {
	view := &PricingView{Pricing: p, IsCurrentlyValid: p.IsValid(now)}
	if p.Service != nil {
		view.ServiceName = p.Service.Name
	}
	return view
}

type BookingView struct {
	*Booking
	ServiceName  string `json:"service_name"`
	ProviderName string `json:"provider_name"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
}

func NewBookingView(b *Booking) *BookingView {
	view := &BookingView{Booking: b}
	if b.Service != nil {
		view.ServiceName = b.Service.Name
		if b.Service.Provider != nil {
			view.ProviderName = b.Service.Provider.Name
		}
	}
	if b.User != nil {
		view.UserName = b.User.FullName()
		view.UserEmail = b.User.Email
	}
	return view
}

type ReviewView struct {
	*Review
	UserName string `json:"user_name"`
}

func NewReviewView(r *Review) *ReviewView {
	view := &ReviewView{Review: r}
	if r.User != nil {
		view.UserName = r.User.FullName()
	}
	return view
}

type CategoryView struct {
	*Category
	ParentName *string `json:"parent_name"`
	FullPath   string  `json:"full_path"`
}
