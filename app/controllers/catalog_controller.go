package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/repository"
)

// HandleCategoryList lists categories for the public storefront.
func HandleCategoryList(c *fiber.Ctx) error {
	categories, err := repository.GetGlobalRepositories().Category.GetAll()
	if err != nil {
		return internalError(c, "Failed to load categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleProductList lists purchasable products.
func HandleProductList(c *fiber.Ctx) error {
	products, err := repository.GetGlobalRepositories().Product.GetActive()
	if err != nil {
		return internalError(c, "Failed to load products")
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandlePostList lists published posts.
func HandlePostList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	posts, err := repository.GetGlobalRepositories().Post.GetPublished(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load posts")
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// HandlePostBySlug returns one published post.
func HandlePostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Missing post slug")
	}

	post, err := repository.GetGlobalRepositories().Post.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c, "Failed to load post")
	}
	if !post.Published {
		return notFound(c, "Post not found")
	}
	return c.JSON(post)
}
