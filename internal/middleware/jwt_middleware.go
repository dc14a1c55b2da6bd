package middleware

import (
	"errors"
	"log"
	"strings"

	"tokorating/internal/models"
	"tokorating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which AuthRequired stores the verified identity.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthRequired is a Fiber middleware that checks for a valid bearer token
// and stores the verified identity in the request locals. Expired tokens
// are reported distinctly from malformed ones; both are 401.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Access denied. No token provided.",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			if errors.Is(err, services.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Token expired.",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token.",
			})
		}

		c.Locals(LocalUserID, identity.UserID)
		c.Locals(LocalRole, string(identity.Role))

		return c.Next()
	}
}

// RequireRole permits the request only when the verified identity holds
// exactly the given role. There is no role hierarchy: an admin is not a
// store_owner for routing purposes. Must run after AuthRequired.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals(LocalRole).(string)
		if current != string(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied. " + roleLabel(role) + " role required.",
			})
		}
		return c.Next()
	}
}

func roleLabel(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "Admin"
	case models.RoleStoreOwner:
		return "Store owner"
	default:
		return "User"
	}
}

// UserID returns the authenticated user's ID from the request locals.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// UserRole returns the authenticated user's role from the request locals.
func UserRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(string)
	return models.Role(role)
}
