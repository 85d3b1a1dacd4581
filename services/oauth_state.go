package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OAuthStateTTL is how long a started Google sign-in may take to come back
const OAuthStateTTL = 10 * time.Minute

var ErrOAuthState = errors.New("oauth state mismatch")

type oauthStateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// NewOAuthState generates a random state and nonce pair
func NewOAuthState() (state, nonce string, err error) {
	if state, err = randomURLString(32); err != nil {
		return "", "", err
	}
	if nonce, err = randomURLString(32); err != nil {
		return "", "", err
	}
	return state, nonce, nil
}

// SignOAuthState packs state and nonce into a signed, expiring cookie value
func SignOAuthState(secret []byte, state, nonce string, now time.Time) (string, error) {
	claims := oauthStateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        state,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(OAuthStateTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return signed, nil
}

// VerifyOAuthState checks the cookie value against the state Google sent back
// and returns the nonce the ID token must carry.
func VerifyOAuthState(secret []byte, cookieValue, returnedState string) (string, error) {
	var claims oauthStateClaims
	_, err := jwt.ParseWithClaims(cookieValue, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOAuthState, err)
	}

	if returnedState == "" || subtle.ConstantTimeCompare([]byte(claims.ID), []byte(returnedState)) != 1 {
		return "", ErrOAuthState
	}
	return claims.Nonce, nil
}

func randomURLString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
