package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/services"
)

const currentUserKey = "currentUser"

// AuthMiddleware enforces a bearer token and stashes the resolved user in
// request locals.
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{"detail": "Invalid or expired token"})
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			detail := "Invalid or expired token"
			if errors.Is(err, services.ErrTokenUserNotFound) {
				detail = "User not found"
			}
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{"detail": detail})
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, nil outside of it.
func CurrentUser(c fiber.Ctx) *entities.User {
	user, _ := c.Locals(currentUserKey).(*entities.User)
	return user
}
