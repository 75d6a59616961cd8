package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/usercontext"
)

// HandleAdminUserList lists accounts. A q query parameter switches to
// name/email search.
func HandleAdminUserList(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().User

	if q := c.Query("q"); q != "" {
		users, err := repo.Search(q)
		if err != nil {
			return internalError(c, "Failed to search users")
		}
		return c.JSON(fiber.Map{"users": users})
	}

	offset, limit := parsePagination(c)
	users, err := repo.List(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load users")
	}
	total, err := repo.Count()
	if err != nil {
		return internalError(c, "Failed to load users")
	}
	return c.JSON(fiber.Map{"users": users, "total": total})
}

type adminUserUpdateRequest struct {
	Name   string `json:"name" validate:"omitempty,min=3,max=150"`
	Role   string `json:"role" validate:"omitempty,oneof=user admin"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive disabled"`
}

// HandleAdminUserUpdate changes role, status or display name of an account.
func HandleAdminUserUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req adminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().User
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	// An admin cannot demote or disable themselves
	if id == usercontext.GetUserID(c) && (req.Role == models.ROLE_USER || req.Status == models.STATUS_DISABLED) {
		return badRequest(c, "You cannot demote or disable your own account")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if err := repo.Update(user); err != nil {
		return internalError(c, "Failed to update user")
	}
	return c.JSON(user)
}

type adminCreditAdjustRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

// HandleAdminUserAdjustCredits grants or revokes credits on an account.
func HandleAdminUserAdjustCredits(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req adminCreditAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().User
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	if req.Delta >= 0 {
		err = repo.AddCredits(id, req.Delta)
	} else {
		err = repo.DebitCredits(id, -req.Delta)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}

	log.Infof("[Admin] Adjusted credits of user %d by %d (%s) by admin %d", id, req.Delta, req.Reason, usercontext.GetUserID(c))

	user, err := repo.GetByID(id)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	return c.JSON(fiber.Map{"id": user.ID, "credits": user.Credits})
}

// HandleAdminUserDelete soft deletes an account.
func HandleAdminUserDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if id == usercontext.GetUserID(c) {
		return badRequest(c, "You cannot delete your own account")
	}

	repo := repository.GetGlobalRepositories().User
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}
	if err := repo.Delete(id); err != nil {
		return internalError(c, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
