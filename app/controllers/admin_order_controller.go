package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
)

// HandleAdminOrderList lists orders, optionally filtered by status.
func HandleAdminOrderList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalRepositories().Order

	status := c.Query("status")
	if status != "" {
		switch status {
		case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusFailed:
		default:
			return badRequest(c, "Invalid status filter")
		}
		orders, err := repo.ListByStatus(status, offset, limit)
		if err != nil {
			return internalError(c, "Failed to load orders")
		}
		return c.JSON(fiber.Map{"orders": orders})
	}

	orders, err := repo.List(offset, limit)
	if err != nil {
		return internalError(c, "Failed to load orders")
	}
	total, err := repo.Count()
	if err != nil {
		return internalError(c, "Failed to load orders")
	}
	return c.JSON(fiber.Map{"orders": orders, "total": total})
}

// HandleAdminOrderDetail returns one order with its raw provider snapshots.
func HandleAdminOrderDetail(c *fiber.Ctx) error {
	orderNo := c.Params("order_no")
	if orderNo == "" {
		return badRequest(c, "Missing order number")
	}

	order, err := repository.GetGlobalRepositories().Order.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Order not found")
		}
		return internalError(c, "Failed to load order")
	}
	return c.JSON(order)
}
