package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanType string

const (
	PlanYearly     PlanType = "yearly"
	PlanHalfYearly PlanType = "half_yearly"
)

// Months returns the billing period length of the plan.
func (p PlanType) Months() int {
	switch p {
	case PlanYearly:
		return 12
	case PlanHalfYearly:
		return 6
	}
	return 0
}

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanExpired   PlanStatus = "expired"
	PlanCancelled PlanStatus = "cancelled"
)

type Subscription struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID  uuid.UUID      `json:"provider" gorm:"type:uuid;not null;index"`
	PlanType    PlanType       `json:"plan_type" gorm:"size:20;not null"`
	Amount      float64        `json:"amount" gorm:"type:numeric(10,2);not null"`
	Currency    string         `json:"currency" gorm:"size:3;not null;default:USD"`
	PaymentID   *string        `json:"payment_id" gorm:"size:255"`
	StartDate   datatypes.Date `json:"start_date" gorm:"not null"`
	EndDate     datatypes.Date `json:"end_date" gorm:"not null;index"`
	Status      PlanStatus     `json:"status" gorm:"size:20;not null;default:active;index"`
	AutoRenewal bool           `json:"auto_renewal" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Provider *Provider `json:"-" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the subscription is active and not past its end date.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == PlanActive && !TruncateDate(now).After(TruncateDate(time.Time(s.EndDate)))
}
