package services

import (
	"context"
	"fmt"
	"lexforge/models"
	"log"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	Email     string
	IPAddress string
	UserAgent string
}

// RecordAuditEvent writes an audit log entry
func RecordAuditEvent(ctx context.Context, db *gorm.DB, actx AuditContext, action models.AuditAction, method SignInMethod) error {
	entry := models.AuditLog{
		UserID:    ptrIfNotEmpty(actx.UserID),
		Email:     actx.Email,
		Action:    action,
		Method:    string(method),
		IPAddress: actx.IPAddress,
		UserAgent: actx.UserAgent,
	}

	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// LogAuditEvent creates a new audit log entry asynchronously
func LogAuditEvent(db *gorm.DB, actx AuditContext, action models.AuditAction, method SignInMethod) {
	// Run in goroutine to avoid blocking the request
	go func() {
		if err := RecordAuditEvent(context.Background(), db, actx, action, method); err != nil {
			log.Printf("[AUDIT] %v", err)
		}
	}()
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
