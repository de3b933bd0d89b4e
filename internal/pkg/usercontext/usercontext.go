package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext carries the authenticated identity for a request. Identity
// is owned by the external auth service; only the user id and email are
// consumed here.
type UserContext struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		if uc, ok := ctx.(UserContext); ok {
			return uc
		}
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext stores the user context on the fiber context.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(ContextKey, uc)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or empty string if not logged in
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}
