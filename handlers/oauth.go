package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"lexforge/db"
	"lexforge/models"
	"lexforge/services"
	"lexforge/templates/pages"

	"github.com/labstack/echo/v4"
)

// OAuthCookieName holds the signed state of an in-flight Google sign-in
const OAuthCookieName = "lexforge_oauth"

const oauthCookiePath = "/auth/google"

// OAuthProvider is the part of an OpenID Connect provider the sign-in flow uses
type OAuthProvider interface {
	AuthURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (*services.GoogleProfile, error)
}

// GoogleSignIn is the configured Google provider, nil when Google sign-in is
// not set up.
var GoogleSignIn OAuthProvider

func googleAvailable(c echo.Context) bool {
	return GoogleSignIn != nil && getConfig(c).GoogleEnabled()
}

// GoogleLoginHandler starts the Google sign-in by redirecting to the consent screen
func GoogleLoginHandler(c echo.Context) error {
	if !googleAvailable(c) || !services.DefaultSignInConfig.Enabled(services.MethodGoogle) {
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleUnavailable)
	}
	cfg := getConfig(c)

	state, nonce, err := services.NewOAuthState()
	if err != nil {
		log.Printf("Failed to start Google sign-in: %v", err)
		return authError(c, pages.ModeSignIn, pages.ErrorServer)
	}
	signed, err := services.SignOAuthState([]byte(cfg.SessionSecret), state, nonce, time.Now())
	if err != nil {
		log.Printf("Failed to start Google sign-in: %v", err)
		return authError(c, pages.ModeSignIn, pages.ErrorServer)
	}

	c.SetCookie(&http.Cookie{
		Name:     OAuthCookieName,
		Value:    signed,
		Path:     oauthCookiePath,
		MaxAge:   int(services.OAuthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, GoogleSignIn.AuthURL(state, nonce))
}

// GoogleCallbackHandler finishes the Google sign-in and starts a session
func GoogleCallbackHandler(c echo.Context) error {
	cfg := getConfig(c)
	clearOAuthCookie(c, cfg.IsProduction())

	if !googleAvailable(c) {
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleUnavailable)
	}
	if reason := c.QueryParam("error"); reason != "" {
		log.Printf("[INFO] Google sign-in cancelled: %s", reason)
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleFailed)
	}

	cookie, err := c.Cookie(OAuthCookieName)
	if err != nil {
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleFailed)
	}
	nonce, err := services.VerifyOAuthState([]byte(cfg.SessionSecret), cookie.Value, c.QueryParam("state"))
	if err != nil {
		services.LogSecurityEvent("OAUTH_STATE_MISMATCH", "", c.RealIP())
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleFailed)
	}

	ctx := c.Request().Context()
	profile, err := GoogleSignIn.Exchange(ctx, c.QueryParam("code"), nonce)
	if err != nil {
		log.Printf("Google sign-in failed: %v", err)
		return authError(c, pages.ModeSignIn, pages.ErrorGoogleFailed)
	}

	user, created, err := services.UpsertGoogleUser(ctx, db.DB, *profile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountInactive):
			return authError(c, pages.ModeSignIn, pages.ErrorAccountInactive)
		case errors.Is(err, services.ErrEmailTaken):
			return authError(c, pages.ModeSignIn, pages.ErrorEmailTaken)
		case errors.Is(err, services.ErrInvalidEmail):
			return authError(c, pages.ModeSignIn, pages.ErrorInvalidEmail)
		}
		log.Printf("Google sign-in failed: %v", err)
		return authError(c, pages.ModeSignIn, pages.ErrorServer)
	}

	action := models.AuditActionLogin
	if created {
		action = models.AuditActionSignup
		sendWelcomeEmail(c, user)
	}
	return startSession(c, user, services.MethodGoogle, action)
}

func clearOAuthCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     OAuthCookieName,
		Value:    "",
		Path:     oauthCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
