package middleware

import (
	"lexforge/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext is middleware that captures who is making the request for
// audit logging. It must run after LoadSession.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := services.AuditContext{
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}

			if user := GetCurrentUser(c); user != nil {
				ctx.UserID = user.ID
				ctx.Email = user.Email
			}

			c.Set(ContextKeyAuditContext, ctx)
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context from the request. Requests that
// skipped the middleware get one built on the spot.
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
