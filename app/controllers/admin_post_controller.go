package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/usercontext"
)

type postRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=200"`
	Slug       string `json:"slug" validate:"required,min=2,max=200"`
	Content    string `json:"content" validate:"required"`
	CoverURL   string `json:"cover_url"`
	Published  bool   `json:"published"`
	CategoryID uint   `json:"category_id"`
}

// HandleAdminPostList lists all posts including drafts.
func HandleAdminPostList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repos := repository.GetGlobalRepositories()

	posts, err := repos.Post.GetAll(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load posts")
	}
	total, err := repos.Post.Count()
	if err != nil {
		return internalError(c, "Failed to load posts")
	}
	return c.JSON(fiber.Map{"posts": posts, "total": total})
}

// HandleAdminPostCreate creates a post authored by the current admin.
func HandleAdminPostCreate(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Post
	exists, err := repo.SlugExists(req.Slug)
	if err != nil {
		return internalError(c, "Failed to check slug")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "A post with this slug already exists")
	}

	post := &models.Post{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CoverURL:   req.CoverURL,
		Published:  req.Published,
		CategoryID: req.CategoryID,
		UserID:     usercontext.GetUserID(c),
	}
	if err := repo.Create(post); err != nil {
		return internalError(c, "Failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleAdminPostUpdate updates a post.
func HandleAdminPostUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid post id")
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Post
	post, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c, "Failed to load post")
	}

	exists, err := repo.SlugExistsExceptID(req.Slug, id)
	if err != nil {
		return internalError(c, "Failed to check slug")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "A post with this slug already exists")
	}

	post.Title = req.Title
	post.Slug = req.Slug
	post.Content = req.Content
	post.CoverURL = req.CoverURL
	post.Published = req.Published
	post.CategoryID = req.CategoryID
	if err := repo.Update(post); err != nil {
		return internalError(c, "Failed to update post")
	}
	return c.JSON(post)
}

// HandleAdminPostDelete deletes a post.
func HandleAdminPostDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid post id")
	}

	repo := repository.GetGlobalRepositories().Post
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c, "Failed to load post")
	}
	if err := repo.Delete(id); err != nil {
		return internalError(c, "Failed to delete post")
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}
