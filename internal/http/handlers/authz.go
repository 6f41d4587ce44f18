package handlers

import (
	"strings"

	"voltbay/internal/auth"
	applog "voltbay/internal/log"

	"github.com/gofiber/fiber/v2"
)

func bearerClaims(c *fiber.Ctx, tokens *auth.Tokens) *auth.Claims {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}
	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	return claims
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := bearerClaims(c, tokens)
		if claims == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals("claims", claims)
		return c.Next()
	}
}

// RequireAdmin additionally checks the ADMIN role claim.
func RequireAdmin(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := bearerClaims(c, tokens)
		if claims == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if claims.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": claims.UserID})
			return jsonError(c, fiber.StatusForbidden, "access denied")
		}
		c.Locals("claims", claims)
		return c.Next()
	}
}

// AttachUser populates claims when a token is present but never rejects.
func AttachUser(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims := bearerClaims(c, tokens); claims != nil {
			c.Locals("claims", claims)
		}
		return c.Next()
	}
}

func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}
