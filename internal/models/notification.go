package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationPush  NotificationType = "push"
	NotificationInApp NotificationType = "in_app"
)

type Notification struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID        `json:"user" gorm:"type:uuid;not null;index"`
	Title            string           `json:"title" gorm:"size:255;not null"`
	Message          string           `json:"message" gorm:"type:text;not null"`
	NotificationType NotificationType `json:"notification_type" gorm:"size:20;not null;default:in_app"`
	IsRead           bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt        time.Time        `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type Chat struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID `json:"sender" gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID `json:"receiver" gorm:"type:uuid;not null;index"`
	ProviderID uuid.UUID `json:"provider" gorm:"type:uuid;not null;index"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	IsRead     bool      `json:"is_read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   *User     `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Receiver *User     `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	Provider *Provider `json:"-" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Chat) TableName() string {
	return "chats"
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type SearchAlert struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `json:"user" gorm:"type:uuid;not null;index"`
	SearchQuery  datatypes.JSON `json:"search_query" gorm:"type:jsonb;not null"`
	AlertName    string         `json:"alert_name" gorm:"size:255;not null"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	LastNotified *time.Time     `json:"last_notified"`
	CreatedAt    time.Time      `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (SearchAlert) TableName() string {
	return "search_alerts"
}

func (a *SearchAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
