package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

const userLocalKey = "user"

// Protect checks the Bearer token, loads the authenticated user and
// attaches it to the request context.
func Protect(users repository.UserRepo, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Not authorized - token missing"))
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Not authorized - invalid token format"))
		}

		userID, err := lib.VerifyJWT(token, jwtSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Not authorized - invalid token"))
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Not authorized - invalid token"))
		}

		user, err := users.FindByID(c.Context(), objectID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Not authorized - user not found"))
		}

		c.Locals(userLocalKey, *user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect. Only valid on routes
// behind it.
func CurrentUser(c *fiber.Ctx) models.User {
	return c.Locals(userLocalKey).(models.User)
}

// RequireRoles allows only the given roles through.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Role '" + string(user.Role) + "' is not authorized to access this route"))
	}
}

// RequireVerified blocks unverified accounts from write operations. The
// role exemption lives in models.RoleIsExempt so the rule exists in one
// place.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user.IsVerified || models.RoleIsExempt(user.Role) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Account must be verified to perform this action"))
	}
}
