package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

const (
	DefaultProviderCategory = "education"
	DefaultProviderAddress  = "Address not provided"
)

type Provider struct {
	ID                 uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID          `json:"user" gorm:"type:uuid;uniqueIndex;not null"`
	Name               string             `json:"name" gorm:"size:255;not null"`
	Description        *string            `json:"description" gorm:"type:text"`
	Category           string             `json:"category" gorm:"size:100;not null;index"`
	Subcategory        *string            `json:"subcategory" gorm:"size:100;index"`
	Address            string             `json:"address" gorm:"type:text;not null"`
	Latitude           *float64           `json:"latitude" gorm:"type:numeric(10,8)"`
	Longitude          *float64           `json:"longitude" gorm:"type:numeric(11,8)"`
	ContactEmail       *string            `json:"contact_email" gorm:"size:254"`
	ContactPhone       *string            `json:"contact_phone" gorm:"size:20"`
	Website            *string            `json:"website" gorm:"size:200"`
	PricingInfo        *string            `json:"pricing_info" gorm:"type:text"`
	IsApproved         bool               `json:"is_approved" gorm:"default:false;index"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" gorm:"size:20;default:inactive"`
	ProfileViews       int                `json:"profile_views" gorm:"default:0"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	User         *User                 `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Photos       []ProviderPhoto       `json:"photos,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	Certificates []ProviderCertificate `json:"certificates,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	Services     []Service             `json:"services,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Provider) TableName() string {
	return "providers"
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SubscriptionStatus == "" {
		p.SubscriptionStatus = SubscriptionInactive
	}
	return nil
}

// NewDefaultProvider builds the profile a provider account starts with.
func NewDefaultProvider(user *User) *Provider {
	name := user.FullName()
	description := fmt.Sprintf("Services provided by %s", name)
	return &Provider{
		UserID:             user.ID,
		Name:               name,
		Description:        &description,
		Category:           DefaultProviderCategory,
		Address:            DefaultProviderAddress,
		SubscriptionStatus: SubscriptionInactive,
	}
}

type ProviderPhoto struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID uuid.UUID `json:"provider" gorm:"type:uuid;not null;index"`
	PhotoURL   string    `json:"photo_url" gorm:"size:500;not null"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (ProviderPhoto) TableName() string {
	return "provider_photos"
}

func (p *ProviderPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProviderCertificate struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID      uuid.UUID       `json:"provider" gorm:"type:uuid;not null;index"`
	CertificateName string          `json:"certificate_name" gorm:"size:255;not null"`
	CertificateURL  string          `json:"certificate_url" gorm:"size:500;not null"`
	IssuedBy        *string         `json:"issued_by" gorm:"size:255"`
	IssuedDate      *datatypes.Date `json:"issued_date"`
	ExpiryDate      *datatypes.Date `json:"expiry_date"`
	UploadedAt      time.Time       `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (ProviderCertificate) TableName() string {
	return "provider_certificates"
}

func (c *ProviderCertificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ProviderAdminItem is the admin listing row for a provider.
type ProviderAdminItem struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Category           string             `json:"category"`
	Subcategory        *string            `json:"subcategory"`
	Address            string             `json:"address"`
	IsApproved         bool               `json:"is_approved"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	ProfileViews       int                `json:"profile_views"`
	UserEmail          string             `json:"user_email"`
	UserName           string             `json:"user_name"`
	ServicesCount      int64              `json:"services_count"`
	CreatedAt          time.Time          `json:"created_at"`
}
