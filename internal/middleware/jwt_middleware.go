package middleware

import (
	"context"
	"strings"

	"storerate/internal/apperr"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// token's user must still exist; it is stored in the context for handlers.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return err
		}

		user, err := auth.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}
		if user, err := auth.Authenticate(c.UserContext(), tokenString); err == nil {
			c.Locals(userKey, user)
		}
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not in roles. It must run after
// AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := services.CheckAccess(CurrentUser(c), roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperr.Unauthenticated("Access denied. No token provided.")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthenticated("Authorization header format must be 'Bearer <token>'")
	}
	return strings.TrimSpace(parts[1]), nil
}
