package handler

import (
	"github.com/gofiber/fiber/v2"

	"eventflow/internal/http/middleware"
	"eventflow/internal/model"
	"eventflow/internal/service"
)

// GetSubscription returns the caller's latest subscription.
func GetSubscription(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := svc.Current(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sub)
	}
}

// Checkout records a payment and grants or extends a paid subscription.
func Checkout(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CheckoutInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Checkout(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// CancelSubscription cancels the caller's active subscription.
func CancelSubscription(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.UserContext(), middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListPayments returns the caller's payment history.
func ListPayments(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		res, err := svc.Payments(c.UserContext(), middleware.UserID(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RequestComplimentary files a complimentary-subscription request.
func RequestComplimentary(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		r, err := svc.RequestComplimentary(c.UserContext(), middleware.UserID(c), req.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// ListSubscriptionRequests returns requests for admin review. The status
// query filters by pending/approved/rejected.
func ListSubscriptionRequests(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		var status *model.RequestStatus
		if raw := c.Query("status"); raw != "" {
			s := model.RequestStatus(raw)
			status = &s
		}

		res, err := svc.ListRequests(c.UserContext(), middleware.UserID(c), limit, offset, status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ApproveRequest grants the requester a complimentary subscription.
func ApproveRequest(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		sub, err := svc.Approve(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sub)
	}
}

// RejectRequest declines a pending request.
func RejectRequest(svc service.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Reject(c.UserContext(), middleware.UserID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
