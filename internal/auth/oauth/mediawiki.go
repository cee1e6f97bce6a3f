package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"eventflow/internal/config"
)

// MediaWiki implements the identityProvider interface against a MediaWiki
// installation's OAuth2 REST endpoints. Wikis do not publish OIDC
// discovery documents, so the identity is read from the profile resource.
type MediaWiki struct {
	cfg        *oauth2.Config
	profileURL string
}

type mediaWikiProfile struct {
	Sub            string `json:"sub"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ConfirmedEmail bool   `json:"confirmed_email"`
}

// NewMediaWiki creates a MediaWiki provider rooted at cfg.BaseURL
// (e.g. https://meta.wikimedia.org).
func NewMediaWiki(cfg config.OAuthProviderConfig) *MediaWiki {
	rest := cfg.BaseURL + "/w/rest.php/oauth2"
	return &MediaWiki{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  rest + "/authorize",
				TokenURL: rest + "/access_token",
			},
		},
		profileURL: rest + "/resource/profile",
	}
}

// LoginURL generates the wiki's authorization URL carrying the given state.
func (m *MediaWiki) LoginURL(state string) (string, error) {
	return m.cfg.AuthCodeURL(state), nil
}

// Exchange trades the authorization code for the wiki profile.
func (m *MediaWiki) Exchange(ctx context.Context, code string) (User, error) {
	tok, err := m.cfg.Exchange(ctx, code)
	if err != nil {
		return User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.profileURL, nil)
	if err != nil {
		return User{}, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := m.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return User{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	var profile mediaWikiProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return User{}, fmt.Errorf("decode profile: %w", err)
	}
	if profile.Sub == "" {
		return User{}, fmt.Errorf("profile has no subject")
	}

	return User{
		ID:            profile.Sub,
		Email:         profile.Email,
		EmailVerified: profile.ConfirmedEmail,
		Name:          profile.Username,
	}, nil
}
