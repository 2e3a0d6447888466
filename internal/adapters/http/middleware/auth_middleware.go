package middleware

import (
	"errors"
	"strings"

	"classhub/internal/core/domain"
	"classhub/internal/core/services"
	"classhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the Locals key the verified principal is stored under
const PrincipalKey = "principal"

// AuthMiddleware creates authentication middleware. Verification goes
// through the auth service so revoked access tokens are rejected, not
// just expired or malformed ones.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		principal, err := authService.Verify(accessToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				return response.Unauthorized(c, "Access token expired")
			case errors.Is(err, domain.ErrTokenRevoked):
				return response.Unauthorized(c, "Access token revoked")
			default:
				return response.Unauthorized(c, "Invalid access token")
			}
		}

		c.Locals(PrincipalKey, principal)
		return c.Next()
	}
}

// RoleMiddleware restricts a route to the given account roles
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := c.Locals(PrincipalKey).(domain.Principal)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range allowedRoles {
			if p.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// TeacherOnly middleware allows only TEACHER accounts
func TeacherOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleTeacher)
}

// Principal returns the verified principal set by AuthMiddleware
func Principal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(PrincipalKey).(domain.Principal)
	return p, ok
}

// extractToken reads the access token from the cookie or the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
