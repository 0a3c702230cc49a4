package middleware

import (
	"strings"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth
const (
	LocalUserID    = "user_id"
	LocalUserName  = "user_name"
	LocalUserEmail = "user_email"
	LocalUserRole  = "user_role"
)

// RequireAuth is middleware that validates the bearer token and sets user info in context
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Authentication("No token, authorization denied")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperror.Authentication("Invalid authorization format. Use: Bearer <token>")
		}

		identity, err := authService.Authenticate(parts[1])
		if err != nil {
			return err
		}

		// Set user info in context for downstream handlers
		c.Locals(LocalUserID, identity.UserID)
		c.Locals(LocalUserName, identity.Name)
		c.Locals(LocalUserEmail, identity.Email)
		c.Locals(LocalUserRole, identity.Role)

		return c.Next()
	}
}

// RequirePermission checks the authenticated user's role against the permission table
func RequirePermission(permission model.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(model.Role)
		if !ok {
			return apperror.Authentication("No token, authorization denied")
		}

		if !role.Can(permission) {
			return apperror.Authorization("Access denied. Insufficient permissions.")
		}

		return c.Next()
	}
}
