package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceIndividual   ServiceType = "individual"
	ServiceGroup        ServiceType = "group"
	ServicePackage      ServiceType = "package"
	ServiceConsultation ServiceType = "consultation"
	ServiceAssessment   ServiceType = "assessment"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceIndividual, ServiceGroup, ServicePackage, ServiceConsultation, ServiceAssessment:
		return true
	}
	return false
}

type Service struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID      uuid.UUID   `json:"provider" gorm:"type:uuid;not null;index"`
	Name            string      `json:"name" gorm:"size:255;not null"`
	Description     *string     `json:"description" gorm:"type:text"`
	ServiceType     ServiceType `json:"service_type" gorm:"size:20;not null;default:individual"`
	DurationHours   int         `json:"duration_hours" gorm:"not null;default:1"`
	DurationMinutes int         `json:"duration_minutes" gorm:"not null;default:0"`
	MaxParticipants int         `json:"max_participants" gorm:"not null;default:1"`
	IsActive        bool        `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Provider *Provider `json:"-" gorm:"foreignKey:ProviderID"`
	Pricings []Pricing `json:"pricings,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DurationDisplay renders the duration as "45 minutes", "1 hour" or "2 hours 30 minutes".
func (s *Service) DurationDisplay() string {
	if s.DurationHours == 0 {
		return fmt.Sprintf("%d minutes", s.DurationMinutes)
	}
	hours := fmt.Sprintf("%d hour", s.DurationHours)
	if s.DurationHours > 1 {
		hours += "s"
	}
	if s.DurationMinutes == 0 {
		return hours
	}
	return fmt.Sprintf("%s %d minutes", hours, s.DurationMinutes)
}

type PricingType string

const (
	PricingPerSession     PricingType = "per_session"
	PricingPerHour        PricingType = "per_hour"
	PricingPerParticipant PricingType = "per_participant"
	PricingFixed          PricingType = "fixed"
	PricingPackage        PricingType = "package"
)

func (t PricingType) IsValid() bool {
	switch t {
	case PricingPerSession, PricingPerHour, PricingPerParticipant, PricingFixed, PricingPackage:
		return true
	}
	return false
}

const DefaultCurrency = "USD"

type Pricing struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ServiceID   uuid.UUID       `json:"service" gorm:"type:uuid;not null;index"`
	PricingType PricingType     `json:"pricing_type" gorm:"size:20;not null;default:per_session"`
	Price       float64         `json:"price" gorm:"type:numeric(10,2);not null"`
	Currency    string          `json:"currency" gorm:"size:3;not null;default:USD"`
	Description *string         `json:"description" gorm:"size:255"`
	MinSessions int             `json:"min_sessions" gorm:"not null;default:1"`
	MaxSessions *int            `json:"max_sessions"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
	ValidFrom   *datatypes.Date `json:"valid_from"`
	ValidUntil  *datatypes.Date `json:"valid_until"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Service *Service `json:"-" gorm:"foreignKey:ServiceID"`
}

func (Pricing) TableName() string {
	return "pricings"
}

func (p *Pricing) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsValid reports whether the pricing is active and today falls inside its validity window.
func (p *Pricing) IsValid(now time.Time) bool {
	today := TruncateDate(now)
	if p.ValidFrom != nil && today.Before(TruncateDate(time.Time(*p.ValidFrom))) {
		return false
	}
	if p.ValidUntil != nil && today.After(TruncateDate(time.Time(*p.ValidUntil))) {
		return false
	}
	return p.IsActive
}

// TruncateDate drops the clock part of t, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
