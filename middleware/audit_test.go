package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lexforge/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("SignedIn", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeySession, models.Authenticated(&models.User{ID: "user-123", Email: "jane@example.com"}))

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))

		auditCtx := GetAuditContext(c)
		assert.Equal(t, "user-123", auditCtx.UserID)
		assert.Equal(t, "jane@example.com", auditCtx.Email)
		assert.Equal(t, "test-agent", auditCtx.UserAgent)
		assert.Equal(t, "192.0.2.1", auditCtx.IPAddress)
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))

		auditCtx := GetAuditContext(c)
		assert.Empty(t, auditCtx.UserID)
		assert.NotEmpty(t, auditCtx.IPAddress)
	})

	t.Run("WithoutMiddleware", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "bare")
		c := e.NewContext(req, httptest.NewRecorder())

		assert.Equal(t, "bare", GetAuditContext(c).UserAgent)
	})
}
