package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/metrics/counter"
)

// HandleAdminStats returns the back-office dashboard aggregates. Pending
// Redis counters are flushed first so the model table is current.
func HandleAdminStats(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	if err := counter.FlushAll(repos.ModelStat); err != nil {
		log.Errorf("[Admin] Failed to flush usage counters: %v", err)
	}

	userCount, err := repos.User.Count()
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}
	orderCount, err := repos.Order.Count()
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}
	generationCount, err := repos.Generation.Count()
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}
	postCount, err := repos.Post.Count()
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}
	modelStats, err := repos.ModelStat.GetAll()
	if err != nil {
		return internalError(c, "Failed to load statistics")
	}

	return c.JSON(fiber.Map{
		"users":       userCount,
		"orders":      orderCount,
		"generations": generationCount,
		"posts":       postCount,
		"models":      modelStats,
	})
}
