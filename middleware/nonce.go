package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ContextKeyNonce is the echo context key for the CSP nonce
const ContextKeyNonce = "csp_nonce"

// GenerateNonce creates a random nonce string
func GenerateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// CSPNonce middleware generates a nonce for each request, exposes it to templ
// components and sets the Content-Security-Policy header.
func CSPNonce() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			nonce, err := GenerateNonce()
			if err != nil {
				c.Logger().Errorf("Failed to generate nonce: %v", err)
				nonce = "fallback-nonce-value"
			}

			c.Set(ContextKeyNonce, nonce)

			// templ.GetNonce reads it back inside components
			ctx := templ.WithNonce(c.Request().Context(), nonce)
			c.SetRequest(c.Request().WithContext(ctx))

			csp := fmt.Sprintf("default-src 'self'; script-src 'self' 'nonce-%s' https://cdn.tailwindcss.com https://unpkg.com; style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; img-src 'self' data:; font-src 'self' https://fonts.gstatic.com; connect-src 'self'; form-action 'self' https://accounts.google.com; frame-ancestors 'none'", nonce)
			c.Response().Header().Set("Content-Security-Policy", csp)

			return next(c)
		}
	}
}
