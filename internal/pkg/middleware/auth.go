package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/usercontext"
)

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "login required",
			},
		})
	}
	return c.Next()
}
