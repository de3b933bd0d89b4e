package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

// respondError renders an application error as the JSON error envelope.
// Internal details of 5xx errors are hidden outside dev to avoid leaking
// configuration or storage internals.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	code := apperr.CodeOf(err)

	// The code is already its own field; tagged errors contribute only
	// their message so it is not rendered twice.
	message := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	if status >= 500 {
		fiberlog.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
		if !env.IsDev() {
			message = "internal server error"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    string(code),
			"message": message,
		},
	})
}

// queryInt parses an integer query parameter with a default.
func queryInt(c *fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
