package oauth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"eventflow/internal/config"
)

const (
	googleScopeEmail   string = "email"
	googleScopeProfile string = "profile"
)

// Google implements the identityProvider interface using Google's OIDC
// endpoint; the returned id_token is verified locally.
type Google struct {
	cfg      *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type googleClaims struct {
	Sub      string `json:"sub,omitempty"`
	Email    string `json:"email,omitempty"`
	Verified bool   `json:"email_verified,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// NewGoogle creates a Google provider from the configured client credentials.
func NewGoogle(ctx context.Context, cfg config.OAuthProviderConfig) (*Google, error) {
	p, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("new oidc provider: %w", err)
	}

	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, googleScopeProfile, googleScopeEmail},
			Endpoint:     p.Endpoint(),
		},
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// LoginURL generates the Google consent URL carrying the given state.
func (g *Google) LoginURL(state string) (string, error) {
	return g.cfg.AuthCodeURL(state), nil
}

// Exchange trades the authorization code for a verified identity.
func (g *Google) Exchange(ctx context.Context, code string) (User, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return User{}, err
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok {
		return User{}, fmt.Errorf("token response has no id_token")
	}
	idTok, err := g.verifier.Verify(ctx, raw)
	if err != nil {
		return User{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims googleClaims
	if err := idTok.Claims(&claims); err != nil {
		return User{}, fmt.Errorf("read claims: %w", err)
	}

	return User{
		ID:            claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.Verified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
