package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"lexforge/models"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// SignInMethod names a way of signing in offered on the login page
type SignInMethod string

const (
	MethodEmailPassword SignInMethod = "email_and_password"
	MethodGoogle        SignInMethod = "google"
)

// SignInConfig declares which sign-in methods the login form offers
type SignInConfig struct {
	Methods []SignInMethod
}

// DefaultSignInConfig is the configuration used by the login page
var DefaultSignInConfig = SignInConfig{
	Methods: []SignInMethod{MethodEmailPassword, MethodGoogle},
}

// Enabled reports whether the method is part of the configuration
func (c SignInConfig) Enabled(method SignInMethod) bool {
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

const (
	// MaxFailedLoginAttempts locks the account once reached
	MaxFailedLoginAttempts = 5
	// LockoutDuration is how long a locked account stays locked
	LockoutDuration = 15 * time.Minute
	// MaxDisplayNameLength caps display names stored on accounts
	MaxDisplayNameLength = 80
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account has been deactivated")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

var displayNamePolicy = bluemonday.StrictPolicy()

// Package level variable to hold the dummy hash used for unknown emails
var dummyHash string

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	hash, _ := HashPassword("dummy_password_for_timing_mitigation")
	dummyHash = hash
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeDisplayName strips markup and surrounding whitespace from a display name
func SanitizeDisplayName(name string) string {
	// Sanitize entity-encodes what it keeps; templates escape on output
	clean := html.UnescapeString(displayNamePolicy.Sanitize(name))
	clean = strings.Join(strings.Fields(clean), " ")
	if runes := []rune(clean); len(runes) > MaxDisplayNameLength {
		clean = string(runes[:MaxDisplayNameLength])
	}
	return clean
}

// Authenticate checks email and password and returns the matching active user.
// Failed attempts are counted and lock the account after MaxFailedLoginAttempts.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Timing attack mitigation
			VerifyPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if !user.HasPassword() || !VerifyPassword(user.Password, password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= MaxFailedLoginAttempts {
			lockoutTime := now.Add(LockoutDuration)
			user.LockoutUntil = &lockoutTime
			user.FailedLoginAttempts = 0
			LogSecurityEvent("ACCOUNT_LOCKED", user.ID, "too many failed login attempts")
		}
		err := db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts,
			"lockout_until":         user.LockoutUntil,
		}).Error
		if err != nil {
			log.Printf("Failed to record login attempt for %s: %v", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return &user, nil
}

// RecordLogin resets lockout counters and stamps the last login time
func RecordLogin(ctx context.Context, db *gorm.DB, user *models.User) error {
	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockoutUntil = nil
	user.LastLoginAt = &now

	err := db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"lockout_until":         nil,
		"last_login_at":         now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// SignUpInput holds the fields of the sign-up form
type SignUpInput struct {
	DisplayName string
	Email       string
	Password    string
}

// RegisterUser creates a password account after validating the input
func RegisterUser(ctx context.Context, db *gorm.DB, input SignUpInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		DisplayName: SanitizeDisplayName(input.DisplayName),
		Email:       email,
		Password:    hashedPassword,
		IsActive:    true,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpsertGoogleUser finds the account bound to a Google identity, links an
// existing account with the same verified email, or creates a new one.
// The returned bool reports whether a new account was created.
func UpsertGoogleUser(ctx context.Context, db *gorm.DB, profile GoogleProfile) (*models.User, bool, error) {
	if profile.Subject == "" {
		return nil, false, errors.New("google profile has no subject")
	}
	email := NormalizeEmail(profile.Email)

	var user models.User
	err := db.WithContext(ctx).Where("google_subject = ?", profile.Subject).First(&user).Error
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, false, ErrAccountInactive
		}
		return &user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	if err := ValidateEmail(email); err != nil {
		return nil, false, err
	}

	err = db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		// Only a verified address may take over an existing account
		if !profile.EmailVerified {
			return nil, false, ErrEmailTaken
		}
		if !user.IsActive {
			return nil, false, ErrAccountInactive
		}
		subject := profile.Subject
		if err := db.WithContext(ctx).Model(&user).Update("google_subject", subject).Error; err != nil {
			return nil, false, fmt.Errorf("failed to link google account: %w", err)
		}
		user.GoogleSubject = &subject
		LogSecurityEvent("GOOGLE_LINKED", user.ID, "google identity linked to existing account")
		return &user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	subject := profile.Subject
	user = models.User{
		DisplayName:   SanitizeDisplayName(profile.Name),
		Email:         email,
		GoogleSubject: &subject,
		IsActive:      true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, true, nil
}
