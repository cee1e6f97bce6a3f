package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"eventflow/internal/auth"
)

func TestAuth(t *testing.T) {
	secret := []byte("test-secret")

	app := fiber.New()
	app.Use(Auth(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := auth.GenerateToken("u1", secret, time.Hour)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "u1", buf.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := auth.GenerateToken("u1", []byte("other"), time.Hour)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.GenerateToken("u1", secret, -time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
