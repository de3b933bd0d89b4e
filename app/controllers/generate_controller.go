package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/generation"
	"github.com/lunarworks/LanternFox/internal/pkg/usercontext"
)

// HandleListStyles returns the curated style presets and prompt ideas.
func HandleListStyles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"styles":            generation.Styles,
		"suggested_prompts": generation.SuggestedPrompts,
	})
}

// HandleGenerate charges the user and runs one generation. Insufficient
// credits abort before the external call with an actionable 402.
func HandleGenerate(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	var req struct {
		Prompt         string `json:"prompt"`
		StyleID        string `json:"style_id"`
		AspectRatio    string `json:"aspect_ratio"`
		ImageDataURL   string `json:"image_data_url"`
		SourceImageURL string `json:"source_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", apperr.ErrInvalidInput))
	}

	result, err := generationService.Generate(c.UserContext(), user.UserID, generation.Request{
		Prompt:         req.Prompt,
		StyleID:        req.StyleID,
		AspectRatio:    req.AspectRatio,
		ImageDataURL:   req.ImageDataURL,
		SourceImageURL: req.SourceImageURL,
	})
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInsufficientCredits {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    string(apperr.CodeInsufficientCredits),
					"message": "Not enough credits. Top up a credit pack to keep generating.",
				},
			})
		}
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleListImages returns the user's generation history.
func HandleListImages(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	images, err := generationService.ListImages(c.UserContext(), user.UserID, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"images": images})
}
