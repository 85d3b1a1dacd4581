package middleware

import (
	"lexforge/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// LoginPath is where unauthenticated visitors are sent
	LoginPath = "/login"
)

// ErrSessionPending is returned by RequireAuth while the session is unsettled.
// The HTTP error handler renders a neutral placeholder for it.
var ErrSessionPending = echo.NewHTTPError(http.StatusServiceUnavailable, "Session is still being resolved")

// RequireAuth guards a route: pending sessions get a placeholder, anonymous
// visitors are redirected to the login page, and authenticated users reach
// the wrapped handler with the user stored under ContextKeyUser.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := GetSession(c)

			switch {
			case state.Loading:
				c.Response().Header().Set("Retry-After", "1")
				return ErrSessionPending
			case state.IsAnonymous():
				if IsHTMX(c) {
					c.Response().Header().Set("HX-Redirect", LoginPath)
					return c.NoContent(http.StatusUnauthorized)
				}
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			c.Set(ContextKeyUser, state.User)
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user, or nil for anonymous visitors
func GetCurrentUser(c echo.Context) *models.User {
	if user, ok := c.Get(ContextKeyUser).(*models.User); ok {
		return user
	}
	return GetSession(c).User
}

// MustGetUser retrieves the user inside a guarded route. A missing user means
// the route was registered without RequireAuth, so it panics.
func MustGetUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok || user == nil {
		panic("middleware: MustGetUser called outside RequireAuth on " + c.Path())
	}
	return user
}
