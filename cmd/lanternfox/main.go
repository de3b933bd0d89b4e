package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lunarworks/LanternFox/internal/pkg/cache"
	"github.com/lunarworks/LanternFox/internal/pkg/database"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
	"github.com/lunarworks/LanternFox/internal/pkg/router"
	"github.com/lunarworks/LanternFox/internal/pkg/upload"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		AppName:   "LanternFox",
		BodyLimit: upload.MaxInlineBodyBytes, // data-url payloads for image-to-image
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	router.InstallRouter(app)

	return app
}
