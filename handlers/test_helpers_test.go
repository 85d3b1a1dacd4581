package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lexforge/config"
	"lexforge/db"
	"lexforge/middleware"
	"lexforge/models"
	"lexforge/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "StrongPassword123!"

var testConfig = &config.Config{
	Environment:   "test",
	EmailTestMode: true,
	AppURL:        "http://localhost:8080",
	SessionSecret: "test-session-secret-with-enough-length",
}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Session{}, &models.AuditLog{}))

	// Set globals
	db.DB = testDB
	services.Sessions = services.NewSessionStore(testDB, nil)

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig)

	return e, c, rec
}

func setupFormEcho(path string, form url.Values) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e, c, rec := setupEcho(http.MethodPost, path, strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return e, c, rec
}

// setupRouter builds the full application router the way main does,
// without CSRF and CSP.
func setupRouter(resolver middleware.SessionResolver) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", testConfig)
			return next(c)
		}
	})
	e.Use(middleware.LoadSession(resolver))
	e.Use(middleware.AuditContext())
	Register(e, Routes(), middleware.RequireAuth())
	return e
}

func createTestUser(t *testing.T, testDB *gorm.DB, displayName, email string) *models.User {
	hash, err := services.HashPassword(testPassword)
	require.NoError(t, err)

	user := &models.User{
		DisplayName: displayName,
		Email:       email,
		Password:    hash,
		IsActive:    true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestSession(t *testing.T, user *models.User) *models.Session {
	session, err := services.Sessions.Create(context.Background(), user.ID, "127.0.0.1", "test")
	require.NoError(t, err)
	return session
}

// signIn puts user on the context the way LoadSession and RequireAuth do
func signIn(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeySession, models.Authenticated(user))
	c.Set(middleware.ContextKeyUser, user)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(ctx context.Context, token string) (*models.Session, error) {
	return nil, r.err
}
