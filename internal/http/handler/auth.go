package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"eventflow/internal/auth/oauth"
	"eventflow/internal/http/middleware"
	"eventflow/internal/service"
)

// OAuthStore is what the auth handlers need from the state store: the Env
// used for CSRF state plus one-time login codes. *oauth.RedisStore
// satisfies it.
type OAuthStore interface {
	oauth.Env
	CreateCode(ctx context.Context, token string) (string, error)
	RedeemCode(ctx context.Context, code string) (string, error)
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an email/password user.
// The verification token is returned in the response until outbound mail
// is wired up.
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, vt, err := svc.Register(c.UserContext(), req.Email, req.Name, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":               user,
			"verification_token": vt.Token,
		})
	}
}

// Login verifies credentials and returns a session token.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(fiber.Map{"token": token})
	}
}

// VerifyEmail consumes a verification token.
func VerifyEmail(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return writeError(c, fiber.StatusBadRequest, "TOKEN_REQUIRED", "token is required")
		}

		if err := svc.VerifyEmail(c.UserContext(), token); err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(fiber.Map{"status": "verified"})
	}
}

// OAuthLogin redirects to the provider's consent page for a sign-in.
func OAuthLogin(authn *oauth.Authenticator, store OAuthStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provider := c.Params("provider")
		if !authn.Has(provider) {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_PROVIDER", "unknown identity provider")
		}

		url, err := authn.LoginURL(c.UserContext(), store, oauth.Intent{Provider: provider})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.Redirect(url, fiber.StatusFound)
	}
}

// OAuthLink starts a provider round-trip that links the resulting identity
// to the authenticated user instead of signing in.
func OAuthLink(authn *oauth.Authenticator, store OAuthStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provider := c.Params("provider")
		if !authn.Has(provider) {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_PROVIDER", "unknown identity provider")
		}

		intent := oauth.Intent{Provider: provider, LinkUserID: middleware.UserID(c)}
		url, err := authn.LoginURL(c.UserContext(), store, intent)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{"url": url})
	}
}

// OAuthCallback finishes the provider round-trip. On success it returns a
// one-time login code to be redeemed for a session token, so the token
// itself never rides on a redirect.
func OAuthCallback(authn *oauth.Authenticator, store OAuthStore, svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provider := c.Params("provider")
		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CALLBACK", "code and state are required")
		}

		usr, intent, err := authn.Exchange(c.UserContext(), store, provider, code, state)
		if err != nil {
			if errors.Is(err, oauth.ErrAuthFailed) || errors.Is(err, oauth.ErrProviderNotFound) {
				return writeError(c, fiber.StatusUnauthorized, "AUTH_FAILED", "authentication failed")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		token, err := svc.CompleteOAuth(c.UserContext(), provider, usr, intent)
		if err != nil {
			return writeServiceError(c, err)
		}

		loginCode, err := store.CreateCode(c.UserContext(), token)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{"code": loginCode})
	}
}

// RedeemLoginCode exchanges a one-time login code for the session token.
func RedeemLoginCode(store OAuthStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil || req.Code == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "code is required")
		}

		token, err := store.RedeemCode(c.UserContext(), req.Code)
		if err != nil {
			if errors.Is(err, oauth.ErrCodeNotFound) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CODE", "code is invalid or expired")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{"token": token})
	}
}

// Me returns the authenticated user's profile.
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := svc.Me(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(profile)
	}
}

// UnlinkAccount removes a linked provider account from the authenticated
// user.
func UnlinkAccount(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provider := c.Params("provider")
		if err := svc.UnlinkAccount(c.UserContext(), middleware.UserID(c), provider); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
