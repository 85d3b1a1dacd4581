package services

import (
	"context"
	"errors"
	"fmt"
	"lexforge/models"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionCache is an optional read-through cache in front of the sessions table.
// Get returns (nil, nil) on a miss.
type SessionCache interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
}

// SessionStore persists login sessions and resolves session cookies.
type SessionStore struct {
	db    *gorm.DB
	cache SessionCache
}

// Sessions is the process-wide store, set up in main.
var Sessions *SessionStore

// NewSessionStore creates a store backed by db. cache may be nil.
func NewSessionStore(db *gorm.DB, cache SessionCache) *SessionStore {
	return &SessionStore{db: db, cache: cache}
}

// Create creates a new session for a user
func (s *SessionStore) Create(ctx context.Context, userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Resolve validates a session token and returns the session with its user.
// It returns ErrSessionNotFound or ErrSessionExpired when the token does not
// identify a live session; any other error means the store could not answer.
func (s *SessionStore) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, token)
		if err != nil {
			log.Printf("[WARNING] Session cache read failed: %v", err)
		} else if cached != nil && !cached.IsExpired() {
			return cached, nil
		}
	}

	var session models.Session
	err := s.db.WithContext(ctx).Preload("User").
		Where("token = ?", token).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		// Delete expired session
		s.db.WithContext(ctx).Delete(&session)
		return nil, ErrSessionExpired
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, &session); err != nil {
			log.Printf("[WARNING] Session cache write failed: %v", err)
		}
	}

	return &session, nil
}

// Delete deletes a session (logout)
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, token); err != nil {
			log.Printf("[WARNING] Session cache delete failed: %v", err)
		}
	}

	result := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// DeleteAllForUser deletes all sessions for a specific user
func (s *SessionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	var tokens []string
	if s.cache != nil {
		if err := s.db.WithContext(ctx).Model(&models.Session{}).Where("user_id = ?", userID).Pluck("token", &tokens).Error; err != nil {
			return fmt.Errorf("failed to load user sessions: %w", err)
		}
		for _, token := range tokens {
			if err := s.cache.Delete(ctx, token); err != nil {
				log.Printf("[WARNING] Session cache delete failed: %v", err)
			}
		}
	}

	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Deleted %d sessions for user %s", result.RowsAffected, userID)
	}
	return nil
}

// CleanupExpired removes all expired sessions from the database
func (s *SessionStore) CleanupExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
