package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
)

type productRequest struct {
	ProductID   string `json:"product_id" validate:"required,min=2,max=100"`
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=draft active archived"`
	Interval    string `json:"interval" validate:"omitempty,oneof=one-time month year"`
	Credits     int64  `json:"credits" validate:"gte=0"`
	ValidMonths int    `json:"valid_months" validate:"gte=0"`
	CategoryID  uint   `json:"category_id"`
	SortOrder   int    `json:"sort_order"`
}

// HandleAdminProductList lists the catalog including drafts and archived
// products.
func HandleAdminProductList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repos := repository.GetGlobalRepositories()

	products, err := repos.Product.GetAll(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load products")
	}
	total, err := repos.Product.Count()
	if err != nil {
		return internalError(c, "Failed to load products")
	}
	return c.JSON(fiber.Map{"products": products, "total": total})
}

// HandleAdminProductCreate adds a product to the catalog. New products start
// as drafts unless a status is given.
func HandleAdminProductCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Product
	if _, err := repo.GetByProductID(req.ProductID); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A product with this product_id already exists")
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusDraft
	}
	interval := req.Interval
	if interval == "" {
		interval = models.IntervalOneTime
	}

	product := &models.Product{
		ProductID:   req.ProductID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Interval:    interval,
		Credits:     req.Credits,
		ValidMonths: req.ValidMonths,
		CategoryID:  req.CategoryID,
		SortOrder:   req.SortOrder,
	}
	if err := repo.Create(product); err != nil {
		return internalError(c, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleAdminProductUpdate updates a product. The product_id is immutable
// once orders may reference it.
func HandleAdminProductUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid product id")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	repo := repository.GetGlobalRepositories().Product
	product, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Product not found")
		}
		return internalError(c, "Failed to load product")
	}

	if req.ProductID != product.ProductID {
		return badRequest(c, "product_id cannot be changed")
	}

	product.Name = req.Name
	product.Description = req.Description
	if req.Status != "" {
		product.Status = req.Status
	}
	if req.Interval != "" {
		product.Interval = req.Interval
	}
	product.Credits = req.Credits
	product.ValidMonths = req.ValidMonths
	product.CategoryID = req.CategoryID
	product.SortOrder = req.SortOrder
	if err := repo.Update(product); err != nil {
		return internalError(c, "Failed to update product")
	}
	return c.JSON(product)
}

// HandleAdminProductDelete archives or removes a product. Products are soft
// deleted so historic orders keep their reference.
func HandleAdminProductDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid product id")
	}

	repo := repository.GetGlobalRepositories().Product
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Product not found")
		}
		return internalError(c, "Failed to load product")
	}
	if err := repo.Delete(id); err != nil {
		return internalError(c, "Failed to delete product")
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}
