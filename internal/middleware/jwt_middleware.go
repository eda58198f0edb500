package middleware

import (
	"strings"

	"storerating/internal/apperrors"
	"storerating/internal/models"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const claimsKey = "claims"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperrors.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		claims, err := authService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return apperrors.Unauthorized("Invalid or expired token")
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims AuthRequired stored on c, or nil.
func ClaimsFrom(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}

// RequireRole allows the request through only when the caller holds one of
// roles. It must run after AuthRequired.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return apperrors.Unauthorized("Authentication required")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return apperrors.Forbidden("You do not have permission to access this resource")
	}
}
