package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

var (
	ErrProviderConflict = errors.New("provider already exists")
	ErrProviderNotFound = errors.New("provider not found")
	ErrAuthFailed       = errors.New("auth failed")
)

// User is the normalized identity returned by a provider after a
// successful code exchange.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// VerifiedEmail returns the email only when the provider vouched for it.
func (u *User) VerifiedEmail() string {
	if u.EmailVerified {
		return u.Email
	}
	return ""
}

// Env persists short-lived per-login values (CSRF state). Save stores the
// value under key; Take retrieves and invalidates it in one step.
type Env interface {
	Save(ctx context.Context, key, val string) error
	Take(ctx context.Context, key string) (string, error)
}

// Intent is attached to the state of a pending login and carried through
// the provider round-trip. LinkUserID is set when an authenticated user is
// linking an additional account rather than signing in.
type Intent struct {
	Provider   string `json:"provider"`
	LinkUserID string `json:"link_user_id,omitempty"`
}

type identityProvider interface {
	LoginURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (User, error)
}

// Authenticator is a registry of named identity providers sharing one
// state store.
type Authenticator struct {
	providers map[string]identityProvider
	mu        sync.RWMutex
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{
		providers: make(map[string]identityProvider),
	}
}

// Use registers a provider under the given name.
func (a *Authenticator) Use(name string, p identityProvider) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.providers[name]; ok {
		return ErrProviderConflict
	}

	a.providers[name] = p
	return nil
}

// Has reports whether a provider is registered under the given name.
func (a *Authenticator) Has(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.providers[name]
	return ok
}

// LoginURL stores a fresh state bound to the intent and returns the
// provider's consent URL.
func (a *Authenticator) LoginURL(ctx context.Context, env Env, intent Intent) (string, error) {
	p, err := a.getProvider(intent.Provider)
	if err != nil {
		return "", fmt.Errorf("get provider: %w", err)
	}

	payload, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("marshal intent: %w", err)
	}

	state := randState(32)
	if err = env.Save(ctx, state, string(payload)); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}

	url, err := p.LoginURL(state)
	if err != nil {
		return "", fmt.Errorf("get login url: %w", err)
	}

	return url, nil
}

// Exchange consumes the state (single use), exchanges the authorization
// code and returns the provider user plus the original intent. An unknown
// or reused state yields ErrAuthFailed.
func (a *Authenticator) Exchange(ctx context.Context, env Env, provider, code, state string) (User, Intent, error) {
	p, err := a.getProvider(provider)
	if err != nil {
		return User{}, Intent{}, fmt.Errorf("get provider: %w", err)
	}

	saved, err := env.Take(ctx, state)
	if err != nil {
		return User{}, Intent{}, ErrAuthFailed
	}

	var intent Intent
	if err := json.Unmarshal([]byte(saved), &intent); err != nil {
		return User{}, Intent{}, ErrAuthFailed
	}
	if intent.Provider != provider {
		return User{}, Intent{}, ErrAuthFailed
	}

	usr, err := p.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			if rerr.Response != nil {
				if rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized {
					return User{}, Intent{}, ErrAuthFailed
				}
			}
		}

		return User{}, Intent{}, fmt.Errorf("exchange: %w", err)
	}

	return usr, intent, nil
}

func (a *Authenticator) getProvider(name string) (identityProvider, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.providers[name]
	if !ok {
		return nil, ErrProviderNotFound
	}

	return p, nil
}

func randState(size int) string {
	b := make([]byte, size)

	// rand.Read never returns an error
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
