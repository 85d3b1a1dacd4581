package middleware

import (
	"context"
	"errors"
	"lexforge/config"
	"lexforge/models"
	"lexforge/services"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "lexforge_session"
	// ContextKeySession is the context key for the resolved SessionState
	ContextKeySession = "session_state"

	// sessionResolveTimeout bounds how long a request waits on the session store
	sessionResolveTimeout = 2 * time.Second
)

// SessionResolver looks up the live session behind a cookie token.
// It returns services.ErrSessionNotFound or services.ErrSessionExpired for
// tokens that do not identify a session; other errors mean "unknown".
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// LoadSession resolves the visitor's session once per request and stores the
// resulting models.SessionState on the context. It never rejects a request.
func LoadSession(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeySession, resolveSession(c, resolver))
			return next(c)
		}
	}
}

func resolveSession(c echo.Context, resolver SessionResolver) models.SessionState {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return models.Anonymous
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), sessionResolveTimeout)
	defer cancel()

	session, err := resolver.Resolve(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, services.ErrSessionExpired) {
			ClearSessionCookie(c)
			return models.Anonymous
		}
		// Store unavailable: keep the cookie and report the session as unsettled
		log.Printf("[WARNING] Session resolution failed: %v", err)
		return models.Pending
	}

	if !session.User.IsActive {
		ClearSessionCookie(c)
		return models.Anonymous
	}

	user := session.User
	return models.Authenticated(&user)
}

// GetSession returns the resolved session state. Requests that did not pass
// through LoadSession are treated as anonymous.
func GetSession(c echo.Context) models.SessionState {
	if state, ok := c.Get(ContextKeySession).(models.SessionState); ok {
		return state
	}
	return models.Anonymous
}

// SetSessionCookie stores the session token on the response
func SetSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func isProduction(c echo.Context) bool {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg.IsProduction()
	}
	return false
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
