package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventflow/internal/http/middleware"
	"eventflow/internal/model"
	"eventflow/internal/service"
)

// parsePage and parseID return an apiError on bad input. Callers must
// propagate it so ErrorHandler writes the 400 and the handler body never
// runs with zero values.
func parsePage(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, badRequestError("INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, badRequestError("INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

func parseID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequestError("INVALID_ID", "invalid id format")
	}
	return id, nil
}

// CreateCommunity creates a new community owned by the caller.
func CreateCommunity(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateCommunityInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		community, err := svc.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(community)
	}
}

// GetCommunity returns a community with its admin roster.
func GetCommunity(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		detail, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(detail)
	}
}

// ListCommunities returns communities with limit/offset paging. The
// parent_id query restricts results to children of that community.
func ListCommunities(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		var parentID *string
		if pid := c.Query("parent_id"); pid != "" {
			parentID = &pid
		}

		res, err := svc.List(c.UserContext(), limit, offset, parentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateCommunity edits name/description.
func UpdateCommunity(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var in service.UpdateCommunityInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		community, err := svc.Update(c.UserContext(), id, middleware.UserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(community)
	}
}

// DeleteCommunity removes a community.
func DeleteCommunity(svc service.CommunityService) fiber.Handler {
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

// JoinCommunity adds the caller as a member.
func JoinCommunity(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Join(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LeaveCommunity removes the caller's membership.
func LeaveCommunity(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := svc.Leave(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListMembers returns a community's member list.
func ListMembers(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}

		res, err := svc.Members(c.UserContext(), id, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SetAdminRole grants or changes a member's admin role.
func SetAdminRole(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		targetID, err := parseID(c, "userID")
		if err != nil {
			return err
		}

		var req struct {
			Role model.AdminRole `json:"role"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		if err := svc.SetAdminRole(c.UserContext(), id, middleware.UserID(c), targetID, req.Role); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveAdmin strips a member's admin role.
func RemoveAdmin(svc service.CommunityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		targetID, err := parseID(c, "userID")
		if err != nil {
			return err
		}

		if err := svc.RemoveAdmin(c.UserContext(), id, middleware.UserID(c), targetID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadCommunityCover stores a cover image (multipart field: file).
func UploadCommunityCover(svc service.CommunityService) fiber.Handler {
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

// GetCommunityCover redirects to a presigned URL for the cover image.
func GetCommunityCover(svc service.CommunityService) fiber.Handler {
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
