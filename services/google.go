package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIssuer is the OIDC issuer used for discovery and ID token verification
const GoogleIssuer = "https://accounts.google.com"

// GoogleProfile is the identity extracted from a verified Google ID token
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleProvider runs the OAuth 2.0 authorization code flow against Google
// and verifies the returned ID token.
type GoogleProvider struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider performs OIDC discovery and returns a provider for the given client.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("google client ID and secret are required")
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	ctx = oidc.ClientContext(ctx, httpClient)

	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("google discovery failed: %w", err)
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthURL returns the Google consent URL carrying state and nonce
func (p *GoogleProvider) AuthURL(state, nonce string) string {
	return p.config.AuthCodeURL(state, oidc.Nonce(nonce), oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for tokens and returns the verified profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code, nonce string) (*GoogleProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google response did not include an id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, ErrOAuthState
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode google claims: %w", err)
	}

	return &GoogleProfile{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
