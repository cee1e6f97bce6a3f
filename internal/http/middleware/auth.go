package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventflow/internal/auth"
)

// UserIDLocalKey is the key used to store the authenticated user's ID in
// Fiber's context locals.
const UserIDLocalKey = "user_id"

// Auth verifies the Bearer token on incoming requests and stores the
// authenticated user's ID in context locals. Requests without a valid
// token get a 401 with the standard error envelope.
func Auth(secretKey []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "missing bearer token")
		}

		userID, err := auth.GetUserIDFromToken(token, secretKey)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user's ID set by Auth, or "" when the
// request was not authenticated.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
