package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"eventflow/internal/http/middleware"
	"eventflow/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// apiError carries a status and machine-readable code through Fiber's
// error path. Returning one from a handler (instead of writing the
// response inline) lets request parsing abort before the handler body
// runs; ErrorHandler renders it into the standard envelope.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequestError(code, message string) error {
	return &apiError{status: fiber.StatusBadRequest, code: code, message: message}
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceErrorCodes maps the service layer's specific failures to stable
// machine-readable codes. Anything not listed falls back to its category.
var serviceErrorCodes = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{service.ErrAccountLinked, fiber.StatusConflict, "ACCOUNT_LINKED"},
	{service.ErrLastAuthMethod, fiber.StatusConflict, "LAST_AUTH_METHOD"},
	{service.ErrSlugTaken, fiber.StatusConflict, "SLUG_TAKEN"},
	{service.ErrHasChildren, fiber.StatusConflict, "HAS_CHILDREN"},
	{service.ErrLastOrganizer, fiber.StatusConflict, "LAST_ORGANIZER"},
	{service.ErrNotMember, fiber.StatusConflict, "NOT_MEMBER"},
	{service.ErrSubscriptionRequired, fiber.StatusForbidden, "SUBSCRIPTION_REQUIRED"},
	{service.ErrNotEligible, fiber.StatusForbidden, "NOT_ELIGIBLE"},
	{service.ErrRequestPending, fiber.StatusConflict, "REQUEST_PENDING"},
	{service.ErrAlreadyReviewed, fiber.StatusConflict, "ALREADY_REVIEWED"},
	{service.ErrNoActiveSubscription, fiber.StatusNotFound, "NO_ACTIVE_SUBSCRIPTION"},
}

// writeServiceError translates a service layer error into the standard
// error envelope. Specific failures carry their own codes; category errors
// map onto generic ones; anything unexpected becomes a 500 without leaking
// details.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrorCodes {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apiError
		if errors.As(err, &ae) {
			return writeError(c, ae.status, ae.code, ae.message)
		}

		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
