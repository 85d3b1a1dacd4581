package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"lexforge/config"
	"lexforge/middleware"
	"lexforge/models"
	"lexforge/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	profile   services.GoogleProfile
	lastNonce string
}

func (f *fakeGoogle) AuthURL(state, nonce string) string {
	f.lastNonce = nonce
	return "https://accounts.example.com/auth?" + url.Values{"state": {state}}.Encode()
}

func (f *fakeGoogle) Exchange(ctx context.Context, code, nonce string) (*services.GoogleProfile, error) {
	if code != "good-code" || nonce != f.lastNonce {
		return nil, services.ErrOAuthState
	}
	profile := f.profile
	return &profile, nil
}

func googleTestConfig() *config.Config {
	cfg := *testConfig
	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"
	return &cfg
}

// startGoogleSignIn runs the first leg and returns the state cookie and state
func startGoogleSignIn(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	_, c, rec := setupEcho(http.MethodGet, "/auth/google", nil)
	c.Set("config", googleTestConfig())
	require.NoError(t, GoogleLoginHandler(c))
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	cookie := findCookie(rec, OAuthCookieName)
	require.NotNil(t, cookie)
	return cookie, location.Query().Get("state")
}

func TestGoogleSignIn(t *testing.T) {
	testDB := setupTestDB(t)
	fake := &fakeGoogle{profile: services.GoogleProfile{
		Subject:       "google-123",
		Email:         "grace@example.com",
		EmailVerified: true,
		Name:          "Grace",
	}}
	GoogleSignIn = fake
	t.Cleanup(func() { GoogleSignIn = nil })

	callback := func(t *testing.T, cookie *http.Cookie, query url.Values) (int, string, *http.Cookie) {
		_, c, rec := setupEcho(http.MethodGet, "/auth/google/callback?"+query.Encode(), nil)
		c.Set("config", googleTestConfig())
		if cookie != nil {
			c.Request().AddCookie(cookie)
		}
		require.NoError(t, GoogleCallbackHandler(c))
		return rec.Code, rec.Header().Get("Location"), findCookie(rec, middleware.SessionCookieName)
	}

	t.Run("New account", func(t *testing.T) {
		cookie, state := startGoogleSignIn(t)
		assert.NotEmpty(t, state)
		assert.True(t, cookie.HttpOnly)

		code, location, session := callback(t, cookie, url.Values{"state": {state}, "code": {"good-code"}})
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, "/dashboard", location)
		require.NotNil(t, session)

		var user models.User
		require.NoError(t, testDB.Where("email = ?", "grace@example.com").First(&user).Error)
		require.NotNil(t, user.GoogleSubject)
		assert.Equal(t, "google-123", *user.GoogleSubject)
		assert.False(t, user.HasPassword())
	})

	t.Run("Returning account", func(t *testing.T) {
		cookie, state := startGoogleSignIn(t)
		_, location, _ := callback(t, cookie, url.Values{"state": {state}, "code": {"good-code"}})
		assert.Equal(t, "/dashboard", location)

		var count int64
		testDB.Model(&models.User{}).Where("email = ?", "grace@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("State mismatch", func(t *testing.T) {
		cookie, _ := startGoogleSignIn(t)
		_, location, session := callback(t, cookie, url.Values{"state": {"forged"}, "code": {"good-code"}})
		assert.Equal(t, "/login?error=google_failed", location)
		assert.Nil(t, session)
	})

	t.Run("Missing state cookie", func(t *testing.T) {
		_, state := startGoogleSignIn(t)
		_, location, _ := callback(t, nil, url.Values{"state": {state}, "code": {"good-code"}})
		assert.Equal(t, "/login?error=google_failed", location)
	})

	t.Run("Consent denied", func(t *testing.T) {
		cookie, state := startGoogleSignIn(t)
		_, location, _ := callback(t, cookie, url.Values{"state": {state}, "error": {"access_denied"}})
		assert.Equal(t, "/login?error=google_failed", location)
	})

	t.Run("Exchange failure", func(t *testing.T) {
		cookie, state := startGoogleSignIn(t)
		_, location, _ := callback(t, cookie, url.Values{"state": {state}, "code": {"bad-code"}})
		assert.Equal(t, "/login?error=google_failed", location)
	})

	t.Run("Login page offers Google", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/login", nil)
		c.Set("config", googleTestConfig())
		require.NoError(t, LoginHandler(c))
		assert.Contains(t, rec.Body.String(), `href="/auth/google"`)
	})
}

func TestGoogleUnavailable(t *testing.T) {
	GoogleSignIn = nil

	_, c, rec := setupEcho(http.MethodGet, "/auth/google", nil)
	require.NoError(t, GoogleLoginHandler(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=google_unavailable", rec.Header().Get("Location"))
}
