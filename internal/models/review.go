package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_provider"`
	ProviderID uuid.UUID `json:"provider" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_provider;index"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText *string   `json:"review_text" gorm:"type:text"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Provider *Provider `json:"-" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string     `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	ParentID    *uuid.UUID `json:"parent" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"created_at"`

	Parent *Category `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
