package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
)

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// HandleAdminCategoryList lists all categories.
func HandleAdminCategoryList(c *fiber.Ctx) error {
	categories, err := repository.GetGlobalRepositories().Category.GetAll()
	if err != nil {
		return internalError(c, "Failed to load categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleAdminCategoryCreate creates a category. Slugs are unique.
func HandleAdminCategoryCreate(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Category
	exists, err := repo.SlugExists(req.Slug)
	if err != nil {
		return internalError(c, "Failed to check slug")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "A category with this slug already exists")
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := repo.Create(category); err != nil {
		return internalError(c, "Failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleAdminCategoryUpdate updates a category.
func HandleAdminCategoryUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Category
	category, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "Failed to load category")
	}

	if req.Slug != category.Slug {
		exists, err := repo.SlugExists(req.Slug)
		if err != nil {
			return internalError(c, "Failed to check slug")
		}
		if exists {
			return jsonError(c, fiber.StatusConflict, "conflict", "A category with this slug already exists")
		}
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Description = req.Description
	category.SortOrder = req.SortOrder
	if err := repo.Update(category); err != nil {
		return internalError(c, "Failed to update category")
	}
	return c.JSON(category)
}

// HandleAdminCategoryDelete deletes a category.
func HandleAdminCategoryDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	repo := repository.GetGlobalRepositories().Category
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Category not found")
		}
		return internalError(c, "Failed to load category")
	}
	if err := repo.Delete(id); err != nil {
		return internalError(c, "Failed to delete category")
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}
