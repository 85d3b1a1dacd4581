package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	now := time.Now()

	assert.True(t, rl.Allow("a", now))
	assert.True(t, rl.Allow("a", now))
	assert.False(t, rl.Allow("a", now))

	// Other keys are independent
	assert.True(t, rl.Allow("b", now))

	// A new window resets the count
	assert.True(t, rl.Allow("a", now.Add(2*time.Minute)))
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 2,
			Window:   time.Second,
		})

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Second,
		})

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))

		req = httptest.NewRequest(http.MethodPost, "/login", nil)
		rec = httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))

		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
	})

	t.Run("HXRequestExceeded", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Second,
		})

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))

		req = httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("HX-Request", "true")
		rec = httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("HXMessageIsEscaped", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Second,
			Message:  "<b>slow down</b>",
		})
		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})
		assert.True(t, rl.Allow("192.0.2.1", time.Now()))

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("HX-Request", "true")
		req.Header.Set(echo.HeaderXRealIP, "192.0.2.1")
		rec := httptest.NewRecorder()

		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), `role="alert"`)
		assert.Contains(t, rec.Body.String(), "&lt;b&gt;slow down&lt;/b&gt;")
		assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	})
}
