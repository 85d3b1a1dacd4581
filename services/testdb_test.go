package services

import (
	"lexforge/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared in-memory database per test
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.AuditLog{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		DisplayName: "Test User",
		Email:       email,
		Password:    hash,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
