package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the kind of authentication event recorded
type AuditAction string

const (
	AuditActionLogin       AuditAction = "LOGIN"        // User signed in
	AuditActionLogout      AuditAction = "LOGOUT"       // User signed out
	AuditActionSignup      AuditAction = "SIGNUP"       // Account created
	AuditActionLoginFailed AuditAction = "LOGIN_FAILED" // Rejected credentials
)

// AuditLog represents an immutable record of an authentication event
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`

	// Actor identification
	UserID *string `gorm:"type:uuid;index:idx_audit_user" json:"user_id,omitempty"`
	Email  string  `json:"email,omitempty"` // Denormalized for historical accuracy

	Action AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Method string      `json:"method,omitempty"` // password, google

	// Request metadata (optional)
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
