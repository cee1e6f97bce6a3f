package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/config"
)

func newWikiServer(t *testing.T, profile mediaWikiProfile, profileStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/w/rest.php/oauth2/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "wiki-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/w/rest.php/oauth2/resource/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer wiki-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if profileStatus != http.StatusOK {
			w.WriteHeader(profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMediaWiki_LoginURL(t *testing.T) {
	mw := NewMediaWiki(config.OAuthProviderConfig{
		ClientID:    "client",
		RedirectURL: "https://app.example/callback",
		BaseURL:     "https://wiki.example",
	})

	url, err := mw.LoginURL("state-1")
	require.NoError(t, err)
	assert.Contains(t, url, "https://wiki.example/w/rest.php/oauth2/authorize")
	assert.Contains(t, url, "state=state-1")
	assert.Contains(t, url, "client_id=client")
}

func TestMediaWiki_Exchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newWikiServer(t, mediaWikiProfile{
			Sub:            "42",
			Username:       "WikiUser",
			Email:          "wiki@example.org",
			ConfirmedEmail: true,
		}, http.StatusOK)

		mw := NewMediaWiki(config.OAuthProviderConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			BaseURL:      srv.URL,
		})

		usr, err := mw.Exchange(context.Background(), "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "42", usr.ID)
		assert.Equal(t, "WikiUser", usr.Name)
		assert.Equal(t, "wiki@example.org", usr.VerifiedEmail())
	})

	t.Run("profile endpoint failure", func(t *testing.T) {
		srv := newWikiServer(t, mediaWikiProfile{}, http.StatusInternalServerError)

		mw := NewMediaWiki(config.OAuthProviderConfig{BaseURL: srv.URL})

		_, err := mw.Exchange(context.Background(), "auth-code")
		assert.Error(t, err)
	})

	t.Run("profile without subject", func(t *testing.T) {
		srv := newWikiServer(t, mediaWikiProfile{Username: "NoSub"}, http.StatusOK)

		mw := NewMediaWiki(config.OAuthProviderConfig{BaseURL: srv.URL})

		_, err := mw.Exchange(context.Background(), "auth-code")
		assert.Error(t, err)
	})
}
