package middleware

import (
	"net/http"
	"sync"
	"time"

	"lexforge/templates/components"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// rateLimitEntry tracks request count and window expiration
type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// RateLimiter is a fixed-window, per-key rate limiter
type RateLimiter struct {
	config RateLimitConfig
	store  map[string]*rateLimitEntry
	mu     sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rl := &RateLimiter{
		config: config,
		store:  make(map[string]*rateLimitEntry),
	}

	go rl.cleanup()

	return rl
}

// Allow records a request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.store[key]
	if !exists || now.After(entry.expiresAt) {
		rl.store[key] = &rateLimitEntry{count: 1, expiresAt: now.Add(rl.config.Window)}
		return true
	}
	if entry.count >= rl.config.Requests {
		return false
	}
	entry.count++
	return true
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.Allow(rl.config.KeyFunc(c), time.Now()) {
				return next(c)
			}

			if IsHTMX(c) {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
				c.Response().WriteHeader(http.StatusTooManyRequests)
				return components.Notice(rl.config.Message).Render(c.Request().Context(), c.Response().Writer)
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
		}
	}
}

// cleanup removes expired entries every minute
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, entry := range rl.store {
			if now.After(entry.expiresAt) {
				delete(rl.store, key)
			}
		}
		rl.mu.Unlock()
	}
}

// LoginRateLimiter limits login attempts to 5 per minute per IP
var LoginRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   1 * time.Minute,
	Message:  "Too many login attempts. Please wait a minute before trying again.",
})

// SignupRateLimiter limits account creation to 3 per hour per IP
var SignupRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 3,
	Window:   1 * time.Hour,
	Message:  "Too many sign-up attempts. Please try again later.",
})
