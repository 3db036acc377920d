package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:254"`
	PasswordHash string    `json:"-" gorm:"not null;size:255"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	Phone        *string   `json:"phone" gorm:"size:20"`
	Role         UserRole  `json:"user_type" gorm:"column:user_type;size:20;not null;default:student"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`

	// Student profile
	FathersName *string         `json:"fathers_name" gorm:"size:150"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	SchoolName  *string         `json:"school_name" gorm:"size:255"`
	ClassName   *string         `json:"class_name" gorm:"size:50"`
	Address     *string         `json:"address" gorm:"type:text"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"date_joined"`
	UpdatedAt time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
