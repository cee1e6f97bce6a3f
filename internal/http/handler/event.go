package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"eventflow/internal/http/middleware"
	"eventflow/internal/service"
)

// CreateEvent creates an event in a community.
func CreateEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var in service.CreateEventInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		event, err := svc.Create(c.UserContext(), communityID, middleware.UserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(event)
	}
}

// ListEvents returns a community's events. The from query (RFC3339)
// restricts results to events starting at or after it.
func ListEvents(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		communityID, err := parseID(c, "id")
		if err != nil {
			return err
		}
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		var from *time.Time
		if raw := c.Query("from"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FROM", "from must be RFC3339")
			}
			from = &t
		}

		res, err := svc.List(c.UserContext(), communityID, limit, offset, from)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetEvent returns a single event.
func GetEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		event, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(event)
	}
}

// UpdateEvent edits an event.
func UpdateEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var in service.UpdateEventInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		event, err := svc.Update(c.UserContext(), id, middleware.UserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(event)
	}
}

// DeleteEvent removes an event.
func DeleteEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadEventCover stores a cover image (multipart field: file).
func UploadEventCover(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		key, err := svc.UploadCover(c.UserContext(), id, middleware.UserID(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
	}
}

// GetEventCover redirects to a presigned URL for the cover image.
func GetEventCover(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		url, err := svc.CoverURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
