package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/cache"
	"github.com/lunarworks/LanternFox/internal/pkg/database"
)

// HandlePing is a liveness probe.
func HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ping": "pong"})
}

// HandleHealth reports readiness of the storage backends.
func HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbOK := false
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}
	}
	cacheOK := cache.GetClient().Ping(ctx).Err() == nil

	status := fiber.StatusOK
	if !dbOK {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"database": dbOK,
		"cache":    cacheOK,
	})
}
