package services

import (
	"context"
	"lexforge/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInConfig(t *testing.T) {
	assert.True(t, DefaultSignInConfig.Enabled(MethodEmailPassword))
	assert.True(t, DefaultSignInConfig.Enabled(MethodGoogle))

	passwordOnly := SignInConfig{Methods: []SignInMethod{MethodEmailPassword}}
	assert.False(t, passwordOnly.Enabled(MethodGoogle))
	assert.False(t, SignInConfig{}.Enabled(MethodEmailPassword))
}

func TestSanitizeDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeDisplayName("  Jane   Doe "))
	assert.Equal(t, "Jane", SanitizeDisplayName("<script>alert(1)</script>Jane"))
	assert.Equal(t, "Jane", SanitizeDisplayName("<b>Jane</b>"))
	assert.Equal(t, "", SanitizeDisplayName("   "))

	assert.Equal(t, "Smith & Co", SanitizeDisplayName("Smith & Co"))

	long := SanitizeDisplayName(strings.Repeat("é", 200))
	assert.Len(t, []rune(long), MaxDisplayNameLength)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	password := "SecretPass123!"

	t.Run("ValidCredentials", func(t *testing.T) {
		db := setupTestDB(t)
		created := createTestUser(t, db, "jane@example.com", password)

		user, err := Authenticate(ctx, db, "  JANE@example.com ", password)
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := Authenticate(ctx, db, "nobody@example.com", password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPasswordCountsAttempts", func(t *testing.T) {
		db := setupTestDB(t)
		created := createTestUser(t, db, "jane@example.com", password)

		_, err := Authenticate(ctx, db, "jane@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		var reloaded models.User
		db.First(&reloaded, "id = ?", created.ID)
		assert.Equal(t, 1, reloaded.FailedLoginAttempts)
	})

	t.Run("LocksAfterRepeatedFailures", func(t *testing.T) {
		db := setupTestDB(t)
		createTestUser(t, db, "jane@example.com", password)

		for i := 0; i < MaxFailedLoginAttempts; i++ {
			_, err := Authenticate(ctx, db, "jane@example.com", "nope")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}

		_, err := Authenticate(ctx, db, "jane@example.com", password)
		assert.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("ExpiredLockoutAllowsLogin", func(t *testing.T) {
		db := setupTestDB(t)
		created := createTestUser(t, db, "jane@example.com", password)
		db.Model(created).Update("lockout_until", time.Now().Add(-time.Minute))

		_, err := Authenticate(ctx, db, "jane@example.com", password)
		assert.NoError(t, err)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		db := setupTestDB(t)
		created := createTestUser(t, db, "jane@example.com", password)
		db.Model(created).Update("is_active", false)

		_, err := Authenticate(ctx, db, "jane@example.com", password)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("GoogleOnlyAccount", func(t *testing.T) {
		db := setupTestDB(t)
		subject := "google-sub"
		require.NoError(t, db.Create(&models.User{Email: "g@example.com", GoogleSubject: &subject, IsActive: true}).Error)

		_, err := Authenticate(ctx, db, "g@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRecordLogin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "jane@example.com", "SecretPass123!")
	db.Model(user).Update("failed_login_attempts", 3)

	require.NoError(t, RecordLogin(ctx, db, user))

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	assert.Equal(t, 0, reloaded.FailedLoginAttempts)
	assert.Nil(t, reloaded.LockoutUntil)
	require.NotNil(t, reloaded.LastLoginAt)
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		db := setupTestDB(t)

		user, err := RegisterUser(ctx, db, SignUpInput{
			DisplayName: " <i>Jane</i> ",
			Email:       "Jane@Example.com",
			Password:    "StrongPassword123!",
		})
		require.NoError(t, err)

		assert.Equal(t, "Jane", user.DisplayName)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.True(t, VerifyPassword(user.Password, "StrongPassword123!"))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db := setupTestDB(t)
		createTestUser(t, db, "jane@example.com", "SecretPass123!")

		_, err := RegisterUser(ctx, db, SignUpInput{Email: "jane@example.com", Password: "StrongPassword123!"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := RegisterUser(ctx, db, SignUpInput{Email: "jane", Password: "StrongPassword123!"})
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := RegisterUser(ctx, db, SignUpInput{Email: "jane@example.com", Password: "weak"})
		assert.Error(t, err)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestUpsertGoogleUser(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesNewAccount", func(t *testing.T) {
		db := setupTestDB(t)

		user, created, err := UpsertGoogleUser(ctx, db, GoogleProfile{
			Subject: "sub-1", Email: "New@Example.com", EmailVerified: true, Name: "New Person",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "New Person", user.DisplayName)
		assert.False(t, user.HasPassword())
	})

	t.Run("ReturnsBoundAccount", func(t *testing.T) {
		db := setupTestDB(t)
		first, _, err := UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-1", Email: "a@example.com", EmailVerified: true})
		require.NoError(t, err)

		again, created, err := UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-1", Email: "changed@example.com", EmailVerified: true})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("LinksVerifiedEmail", func(t *testing.T) {
		db := setupTestDB(t)
		existing := createTestUser(t, db, "jane@example.com", "SecretPass123!")

		user, created, err := UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-2", Email: "jane@example.com", EmailVerified: true})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, user.ID)

		var reloaded models.User
		db.First(&reloaded, "id = ?", existing.ID)
		require.NotNil(t, reloaded.GoogleSubject)
		assert.Equal(t, "sub-2", *reloaded.GoogleSubject)
	})

	t.Run("RefusesUnverifiedEmailTakeover", func(t *testing.T) {
		db := setupTestDB(t)
		createTestUser(t, db, "jane@example.com", "SecretPass123!")

		_, _, err := UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-3", Email: "jane@example.com", EmailVerified: false})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		db := setupTestDB(t)
		user, _, err := UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-4", Email: "b@example.com", EmailVerified: true})
		require.NoError(t, err)
		db.Model(user).Update("is_active", false)

		_, _, err = UpsertGoogleUser(ctx, db, GoogleProfile{Subject: "sub-4", Email: "b@example.com", EmailVerified: true})
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		db := setupTestDB(t)

		_, _, err := UpsertGoogleUser(ctx, db, GoogleProfile{Email: "c@example.com"})
		assert.Error(t, err)
	})
}
