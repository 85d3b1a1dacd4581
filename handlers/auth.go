package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lexforge/db"
	"lexforge/middleware"
	"lexforge/models"
	"lexforge/services"
	"lexforge/templates/components"
	"lexforge/templates/pages"

	"github.com/labstack/echo/v4"
)

// LoginHandler renders the sign-in page, or the sign-up form with ?mode=signup.
// Signed-in visitors are sent to the dashboard.
func LoginHandler(c echo.Context) error {
	state := middleware.GetSession(c)
	if state.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, components.DashboardPath)
	}

	mode := pages.ModeSignIn
	if c.QueryParam("mode") == pages.ModeSignUp {
		mode = pages.ModeSignUp
	}

	return render(c, http.StatusOK, pages.Login(pages.LoginPageData{
		State:           state,
		SignIn:          services.DefaultSignInConfig,
		GoogleAvailable: googleAvailable(c),
		CSRFToken:       middleware.GetCSRFToken(c),
		Mode:            mode,
		Error:           pages.LoginErrorMessage(c.QueryParam("error")),
	}))
}

// LoginPostHandler handles the email and password sign-in form
func LoginPostHandler(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if email == "" || password == "" {
		return authError(c, pages.ModeSignIn, pages.ErrorMissingFields)
	}

	user, err := services.Authenticate(c.Request().Context(), db.DB, email, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			services.Monitor.TrackFailedLogin(c.RealIP(), time.Now())
			actx := middleware.GetAuditContext(c)
			actx.Email = services.NormalizeEmail(email)
			services.LogAuditEvent(db.DB, actx, models.AuditActionLoginFailed, services.MethodEmailPassword)
			return authError(c, pages.ModeSignIn, pages.ErrorInvalidCredentials)
		case errors.Is(err, services.ErrAccountLocked):
			return authError(c, pages.ModeSignIn, pages.ErrorAccountLocked)
		case errors.Is(err, services.ErrAccountInactive):
			return authError(c, pages.ModeSignIn, pages.ErrorAccountInactive)
		}
		log.Printf("Login failed: %v", err)
		return authError(c, pages.ModeSignIn, pages.ErrorServer)
	}

	return startSession(c, user, services.MethodEmailPassword, models.AuditActionLogin)
}

// SignupPostHandler creates a password account and signs it in
func SignupPostHandler(c echo.Context) error {
	input := services.SignUpInput{
		DisplayName: c.FormValue("display_name"),
		Email:       strings.TrimSpace(c.FormValue("email")),
		Password:    c.FormValue("password"),
	}
	if input.Email == "" || input.Password == "" {
		return authError(c, pages.ModeSignUp, pages.ErrorMissingFields)
	}

	user, err := services.RegisterUser(c.Request().Context(), db.DB, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			return authError(c, pages.ModeSignUp, pages.ErrorInvalidEmail)
		case errors.Is(err, services.ErrWeakPassword):
			return authError(c, pages.ModeSignUp, pages.ErrorWeakPassword)
		case errors.Is(err, services.ErrEmailTaken):
			return authError(c, pages.ModeSignUp, pages.ErrorEmailTaken)
		}
		log.Printf("Sign-up failed: %v", err)
		return authError(c, pages.ModeSignUp, pages.ErrorServer)
	}

	sendWelcomeEmail(c, user)
	return startSession(c, user, services.MethodEmailPassword, models.AuditActionSignup)
}

// LogoutHandler asks for confirmation before signing out
func LogoutHandler(c echo.Context) error {
	return render(c, http.StatusOK, pages.Logout(middleware.MustGetUser(c), middleware.GetCSRFToken(c)))
}

// LogoutPostHandler ends the current session, or every session of the user
// when the "all" form field is set
func LogoutPostHandler(c echo.Context) error {
	user := middleware.MustGetUser(c)

	ctx := c.Request().Context()
	if c.FormValue("all") == "1" {
		if err := services.Sessions.DeleteAllForUser(ctx, user.ID); err != nil {
			log.Printf("Failed to delete sessions for %s: %v", user.ID, err)
		}
	} else if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.Sessions.Delete(ctx, cookie.Value); err != nil {
			log.Printf("Failed to delete session for %s: %v", user.ID, err)
		}
	}
	middleware.ClearSessionCookie(c)

	services.LogAuditEvent(db.DB, auditContext(c, user), models.AuditActionLogout, "")
	return redirect(c, components.HomePath)
}

type currentUserResponse struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"display_name"`
	Email        string  `json:"email"`
	GreetingName string  `json:"greeting_name"`
	GoogleLinked bool    `json:"google_linked"`
	LastLoginAt  *string `json:"last_login_at,omitempty"`
}

// GetCurrentUserHandler returns the signed-in user as JSON
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.MustGetUser(c)

	resp := currentUserResponse{
		ID:           user.ID,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		GreetingName: user.GreetingName(),
		GoogleLinked: user.GoogleSubject != nil,
	}
	if user.LastLoginAt != nil {
		ts := user.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &ts
	}
	return c.JSON(http.StatusOK, resp)
}

// startSession creates a session for user, sets the cookie and sends the
// visitor to the dashboard.
func startSession(c echo.Context, user *models.User, method services.SignInMethod, action models.AuditAction) error {
	ctx := c.Request().Context()

	session, err := services.Sessions.Create(ctx, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		log.Printf("Failed to create session for %s: %v", user.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	middleware.SetSessionCookie(c, session.Token)

	if err := services.RecordLogin(ctx, db.DB, user); err != nil {
		log.Printf("[WARNING] %v", err)
	}
	services.LogAuditEvent(db.DB, auditContext(c, user), action, method)

	return redirect(c, components.DashboardPath)
}

// authError reports a form error: htmx gets an inline fragment, everyone else
// is sent back to the login page with the error code.
func authError(c echo.Context, mode, code string) error {
	if middleware.IsHTMX(c) {
		return render(c, http.StatusOK, pages.FormError(pages.LoginErrorMessage(code)))
	}
	return c.Redirect(http.StatusSeeOther, loginURL(mode, code))
}

func loginURL(mode, code string) string {
	q := url.Values{}
	if mode == pages.ModeSignUp {
		q.Set("mode", pages.ModeSignUp)
	}
	if code != "" {
		q.Set("error", code)
	}
	if len(q) == 0 {
		return components.LoginPath
	}
	return components.LoginPath + "?" + q.Encode()
}

func auditContext(c echo.Context, user *models.User) services.AuditContext {
	actx := middleware.GetAuditContext(c)
	actx.UserID = user.ID
	actx.Email = user.Email
	return actx
}

func sendWelcomeEmail(c echo.Context, user *models.User) {
	cfg := getConfig(c)
	email, err := services.BuildWelcomeEmail(user.Email, user.DisplayName, cfg.AppURL)
	if err != nil {
		log.Printf("Failed to build welcome email for %s: %v", user.ID, err)
		return
	}
	services.SendEmailAsync(cfg, email)
}
