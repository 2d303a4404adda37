package middleware

import (
	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles lets the request through when the authenticated role is one of
// roles. It must run after Authenticate.
func RequireRoles(roles ...models.Role) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if !allowed[role] {
			return apperr.Forbidden("Forbidden resource")
		}
		return c.Next()
	}
}
