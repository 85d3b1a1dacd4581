package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetCSRFToken(t *testing.T) {
	e := echo.New()

	t.Run("TokenExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set(CSRFContextKey, "test-csrf-token")

		assert.Equal(t, "test-csrf-token", GetCSRFToken(c))
	})

	t.Run("TokenMissing", func(t *testing.T) {
		c := e.NewContext(nil, nil)

		assert.Equal(t, "", GetCSRFToken(c))
	})

	t.Run("TokenInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set(CSRFContextKey, 123)

		assert.Equal(t, "", GetCSRFToken(c))
	})
}

func TestCSRF(t *testing.T) {
	e := echo.New()
	e.Use(CSRF(false))
	e.GET("/form", func(c echo.Context) error {
		return c.String(http.StatusOK, GetCSRFToken(c))
	})
	e.POST("/form", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	// Issue a token
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	token := rec.Body.String()
	assert.NotEmpty(t, token)

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/form", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("ValidToken", func(t *testing.T) {
		form := url.Values{CSRFFormField: {token}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(&http.Cookie{Name: CSRFFormField, Value: token})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
