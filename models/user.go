package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DisplayName   string     `json:"display_name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `json:"-"`                                     // Empty for accounts created through Google
	GoogleSubject *string    `gorm:"uniqueIndex" json:"-"`                  // Stable "sub" claim from Google ID tokens
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	// Lockout tracking
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil        *time.Time `json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// GreetingName is the name shown in greetings: the display name, else the
// local part of the email address, else an empty string.
func (u *User) GreetingName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(strings.TrimSpace(u.Email), "@")
	return local
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// IsLocked reports whether the account is temporarily locked at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockoutUntil != nil && now.Before(*u.LockoutUntil)
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
