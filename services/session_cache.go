package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"lexforge/models"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionCacheTTL bounds how long a resolved session is served from Redis
	DefaultSessionCacheTTL = 5 * time.Minute

	sessionCachePrefix = "lexforge:session:"
)

// RedisSessionCache caches resolved sessions in Redis, keyed by a hash of the token.
type RedisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// sessionCacheEntry is the Redis form of a resolved session. Fields are
// listed explicitly because the models hide some of them from JSON. The
// password hash is never cached.
type sessionCacheEntry struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`

	UserID        string     `json:"user_id"`
	UserCreatedAt time.Time  `json:"user_created_at"`
	UserUpdatedAt time.Time  `json:"user_updated_at"`
	DisplayName   string     `json:"display_name"`
	Email         string     `json:"email"`
	GoogleSubject *string    `json:"google_subject,omitempty"`
	IsActive      bool       `json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// NewRedisSessionCache connects to the Redis server at url (redis://...).
func NewRedisSessionCache(ctx context.Context, url string) (*RedisSessionCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisSessionCache{client: client, ttl: DefaultSessionCacheTTL}, nil
}

func (c *RedisSessionCache) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := c.client.Get(ctx, sessionCacheKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	return decodeCachedSession(token, data)
}

func (c *RedisSessionCache) Set(ctx context.Context, session *models.Session) error {
	ttl := c.ttl
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}

	data, err := encodeCachedSession(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionCacheKey(session.Token), data, ttl).Err()
}

func (c *RedisSessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, sessionCacheKey(token)).Err()
}

// Close releases the underlying connection pool
func (c *RedisSessionCache) Close() error {
	return c.client.Close()
}

func encodeCachedSession(session *models.Session) ([]byte, error) {
	user := session.User
	return json.Marshal(sessionCacheEntry{
		SessionID:     session.ID,
		CreatedAt:     session.CreatedAt,
		ExpiresAt:     session.ExpiresAt,
		IPAddress:     session.IPAddress,
		UserAgent:     session.UserAgent,
		UserID:        session.UserID,
		UserCreatedAt: user.CreatedAt,
		UserUpdatedAt: user.UpdatedAt,
		DisplayName:   user.DisplayName,
		Email:         user.Email,
		GoogleSubject: user.GoogleSubject,
		IsActive:      user.IsActive,
		LastLoginAt:   user.LastLoginAt,
	})
}

func decodeCachedSession(token string, data []byte) (*models.Session, error) {
	var entry sessionCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt session cache entry: %w", err)
	}
	if entry.SessionID == "" || entry.UserID == "" {
		return nil, errors.New("corrupt session cache entry: missing ids")
	}

	return &models.Session{
		ID:        entry.SessionID,
		CreatedAt: entry.CreatedAt,
		UserID:    entry.UserID,
		Token:     token,
		ExpiresAt: entry.ExpiresAt,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		User: models.User{
			ID:            entry.UserID,
			CreatedAt:     entry.UserCreatedAt,
			UpdatedAt:     entry.UserUpdatedAt,
			DisplayName:   entry.DisplayName,
			Email:         entry.Email,
			GoogleSubject: entry.GoogleSubject,
			IsActive:      entry.IsActive,
			LastLoginAt:   entry.LastLoginAt,
		},
	}, nil
}

func sessionCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionCachePrefix + hex.EncodeToString(sum[:])
}
