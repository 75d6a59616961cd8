package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/usercontext"
)

// HandleUserProfile returns account information for the authenticated user.
func HandleUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	generationCount, err := repos.Generation.CountByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}

	return c.JSON(fiber.Map{
		"id":               user.ID,
		"username":         user.Name,
		"email":            user.Email,
		"status":           user.Status,
		"credits":          user.Credits,
		"is_admin":         user.Role == models.ROLE_ADMIN,
		"has_api_key":      user.APIKeyHash != "",
		"created_at":       user.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at":    formatTimePtr(user.LastLoginAt),
		"generation_count": generationCount,
	})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// HandleUserUpdatePassword changes the account password.
func HandleUserUpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalRepositories().User

	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return internalError(c, "Failed to update password")
	}
	if err := repo.Update(user); err != nil {
		return internalError(c, "Failed to update password")
	}

	return c.JSON(fiber.Map{"message": "password updated"})
}

// HandleUserGenerateAPIKey mints a fresh API key and returns the plaintext
// once. Only the hash is stored; a new call rotates the key.
func HandleUserGenerateAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalRepositories().User

	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}

	key, err := user.GenerateAPIKey()
	if err != nil {
		log.Errorf("[User] Failed to generate API key for user %d: %v", user.ID, err)
		return internalError(c, "Failed to generate API key")
	}
	if err := repo.Update(user); err != nil {
		return internalError(c, "Failed to store API key")
	}

	return c.JSON(fiber.Map{
		"api_key": key,
		"message": "Store this key now, it will not be shown again",
	})
}

// HandleUserOrders lists the authenticated user's orders.
func HandleUserOrders(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	orders, err := repository.GetGlobalRepositories().Order.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load orders")
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleUserGenerations lists the authenticated user's generation history.
func HandleUserGenerations(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	repos := repository.GetGlobalRepositories()
	generations, err := repos.Generation.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return internalError(c, "Failed to load generations")
	}
	total, err := repos.Generation.CountByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load generations")
	}

	return c.JSON(fiber.Map{
		"generations": generations,
		"total":       total,
	})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
