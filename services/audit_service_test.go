package services

import (
	"context"
	"lexforge/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuditEvent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	actx := AuditContext{UserID: "user-1", Email: "jane@example.com", IPAddress: "127.0.0.1", UserAgent: "test"}
	require.NoError(t, RecordAuditEvent(ctx, db, actx, models.AuditActionLogin, MethodGoogle))
	require.NoError(t, RecordAuditEvent(ctx, db, AuditContext{Email: "ghost@example.com"}, models.AuditActionLoginFailed, MethodEmailPassword))

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var login models.AuditLog
	require.NoError(t, db.Where("action = ?", models.AuditActionLogin).First(&login).Error)
	assert.Equal(t, "google", login.Method)
	require.NotNil(t, login.UserID)
	assert.Equal(t, "user-1", *login.UserID)
	assert.NotEmpty(t, login.ID)

	var failed models.AuditLog
	require.NoError(t, db.Where("action = ?", models.AuditActionLoginFailed).First(&failed).Error)
	assert.Nil(t, failed.UserID)
	assert.Equal(t, "ghost@example.com", failed.Email)
}
