package middleware

import (
	"flowershop_backend/internal/apperr"
	"flowershop_backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Authenticate.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// Authenticate rejects requests without a valid bearer token and stores the
// token claims in the request locals.
func Authenticate(tokens *utils.TokenMaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return apperr.Unauthorized("Unauthorized")
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			return apperr.Unauthorized("Unauthorized")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}
