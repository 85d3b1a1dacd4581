package middleware

import (
	"context"
	"errors"
	"lexforge/models"
	"lexforge/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubResolver answers Resolve from a fixed table
type stubResolver struct {
	sessions map[string]*models.Session
	err      error
}

func (s stubResolver) Resolve(_ context.Context, token string) (*models.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, services.ErrSessionNotFound
}

func newResolver() stubResolver {
	return stubResolver{sessions: map[string]*models.Session{
		"active":   {Token: "active", User: models.User{ID: "u1", Email: "jane@example.com", IsActive: true}},
		"inactive": {Token: "inactive", User: models.User{ID: "u2", Email: "old@example.com", IsActive: false}},
	}}
}

func runLoadSession(t *testing.T, resolver SessionResolver, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoadSession(resolver)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return c, rec
}

func TestLoadSession(t *testing.T) {
	t.Run("NoCookie", func(t *testing.T) {
		c, _ := runLoadSession(t, newResolver(), "")
		assert.True(t, GetSession(c).IsAnonymous())
	})

	t.Run("ValidSession", func(t *testing.T) {
		c, _ := runLoadSession(t, newResolver(), "active")
		state := GetSession(c)
		assert.True(t, state.IsAuthenticated())
		assert.Equal(t, "u1", state.User.ID)
	})

	t.Run("UnknownTokenClearsCookie", func(t *testing.T) {
		c, rec := runLoadSession(t, newResolver(), "bogus")
		assert.True(t, GetSession(c).IsAnonymous())
		assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		c, _ := runLoadSession(t, stubResolver{err: services.ErrSessionExpired}, "old")
		assert.True(t, GetSession(c).IsAnonymous())
	})

	t.Run("InactiveUser", func(t *testing.T) {
		c, rec := runLoadSession(t, newResolver(), "inactive")
		assert.True(t, GetSession(c).IsAnonymous())
		assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("StoreFailureIsPending", func(t *testing.T) {
		c, rec := runLoadSession(t, stubResolver{err: errors.New("database is locked")}, "active")
		state := GetSession(c)
		assert.True(t, state.Loading)
		assert.Nil(t, state.User)
		assert.Empty(t, rec.Header().Get("Set-Cookie"), "cookie must survive a transient failure")
	})
}

func TestLoadSessionResolverCalls(t *testing.T) {
	t.Run("ResolvesOncePerRequestWithDeadline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := NewMockSessionResolver(ctrl)
		resolver.EXPECT().Resolve(gomock.Any(), "tok").DoAndReturn(func(ctx context.Context, token string) (*models.Session, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return &models.Session{Token: token, User: models.User{ID: "u1", IsActive: true}}, nil
		}).Times(1)

		c, _ := runLoadSession(t, resolver, "tok")
		assert.True(t, GetSession(c).IsAuthenticated())
	})

	t.Run("NoCookieSkipsStore", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := NewMockSessionResolver(ctrl)
		resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Times(0)

		c, _ := runLoadSession(t, resolver, "")
		assert.True(t, GetSession(c).IsAnonymous())
	})

	t.Run("TimeoutIsPending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resolver := NewMockSessionResolver(ctrl)
		resolver.EXPECT().Resolve(gomock.Any(), "tok").Return(nil, context.DeadlineExceeded)

		c, _ := runLoadSession(t, resolver, "tok")
		assert.Equal(t, models.Pending, GetSession(c))
	})
}

func TestGetSessionDefault(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, models.Anonymous, GetSession(c))
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	handler := RequireAuth()(func(c echo.Context) error {
		return c.String(http.StatusOK, "dashboard body")
	})

	newContext := func(state models.SessionState, htmx bool) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeySession, state)
		return c, rec
	}

	t.Run("Authenticated", func(t *testing.T) {
		user := &models.User{ID: "u1"}
		c, rec := newContext(models.Authenticated(user), false)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dashboard body", rec.Body.String())
		assert.Equal(t, user, MustGetUser(c))
	})

	t.Run("AnonymousRedirects", func(t *testing.T) {
		c, rec := newContext(models.Anonymous, false)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.NotContains(t, rec.Body.String(), "dashboard body")
	})

	t.Run("AnonymousHTMX", func(t *testing.T) {
		c, rec := newContext(models.Anonymous, true)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("PendingNeitherRendersNorRedirects", func(t *testing.T) {
		c, rec := newContext(models.Pending, false)

		err := handler(c)
		assert.ErrorIs(t, err, ErrSessionPending)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.NotContains(t, rec.Body.String(), "dashboard body")
	})
}

func TestAuthHelpers(t *testing.T) {
	e := echo.New()

	t.Run("GetCurrentUser", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		assert.Nil(t, GetCurrentUser(c))

		user := &models.User{ID: "123"}
		c.Set(ContextKeySession, models.Authenticated(user))
		assert.Equal(t, user, GetCurrentUser(c))
	})

	t.Run("MustGetUserPanicsWithoutGuard", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), httptest.NewRecorder())
		assert.Panics(t, func() { MustGetUser(c) })
	})
}
