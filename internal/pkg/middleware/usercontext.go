package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/session"
	"github.com/lunarworks/LanternFox/internal/pkg/usercontext"
)

// UserContext resolves the session-resident identity (written by the
// external auth service) into a request-scoped UserContext.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := session.GetSessionValue(c, usercontext.KeyUserID)
		if err != nil || userID == "" {
			usercontext.SetUserContext(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}
		email, _ := session.GetSessionValue(c, usercontext.KeyEmail)
		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     userID,
			Email:      email,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}
