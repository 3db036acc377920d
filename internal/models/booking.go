package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Booking struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID      `json:"user" gorm:"type:uuid;not null;index"`
	ServiceID       uuid.UUID      `json:"service" gorm:"type:uuid;not null;index"`
	PricingID       *uuid.UUID     `json:"pricing" gorm:"type:uuid;index"`
	BookingDate     datatypes.Date `json:"booking_date" gorm:"not null"`
	BookingTime     datatypes.Time `json:"booking_time" gorm:"not null"`
	DurationHours   int            `json:"duration_hours" gorm:"not null;default:1"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null;default:0"`
	Participants    int            `json:"participants" gorm:"not null;default:1"`
	TotalAmount     *float64       `json:"total_amount" gorm:"type:numeric(10,2)"`
	Currency        string         `json:"currency" gorm:"size:3;not null;default:USD"`
	SpecialRequests *string        `json:"special_requests" gorm:"type:text"`
	Status          BookingStatus  `json:"status" gorm:"size:20;not null;default:pending;index"`
	PaymentStatus   PaymentStatus  `json:"payment_status" gorm:"size:20;not null;default:pending"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time      `json:"updated_at"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Service *Service `json:"-" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	Pricing *Pricing `json:"-" gorm:"foreignKey:PricingID;constraint:OnDelete:SET NULL"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ProviderUserID returns the user owning the booked service's provider, or uuid.Nil
// when the service chain is not loaded.
func (b *Booking) ProviderUserID() uuid.UUID {
	if b.Service == nil || b.Service.Provider == nil {
		return uuid.Nil
	}
	return b.Service.Provider.UserID
}

// CalculateTotal derives the amount owed from the attached pricing.
// A booking without pricing, or with an unknown pricing type, totals 0.
func (b *Booking) CalculateTotal() float64 {
	return CalculateTotal(b.Pricing, b.DurationHours, b.DurationMinutes, b.Participants)
}

func CalculateTotal(pricing *Pricing, hours, minutes, participants int) float64 {
	if pricing == nil {
		return 0
	}

	var total float64
	switch pricing.PricingType {
	case PricingPerSession, PricingFixed, PricingPackage:
		total = pricing.Price
	case PricingPerHour:
		total = pricing.Price * (float64(hours) + float64(minutes)/60)
	case PricingPerParticipant:
		total = pricing.Price * float64(participants)
	default:
		return 0
	}

	return math.Round(total*100) / 100
}
