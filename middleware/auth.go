package middleware

import (
	"strings"

	"marketing-crm/services/auth"
	"marketing-crm/types"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// IsAuthenticated verifies the session token from the Authorization header,
// or the "access" cookie as a fallback, and checks requiredPermissions.
// With matchAny one of the permissions is enough, otherwise all are needed.
func IsAuthenticated(tokens *auth.TokenIssuer, requiredPermissions []string, matchAny bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return utils.SendError(c, err)
		}

		principal, err := tokens.VerifyToken(token)
		if err != nil {
			return utils.SendError(c, err)
		}

		if !hasPermissions(principal, requiredPermissions, matchAny) {
			return utils.SendError(c, types.NewError(types.KindForbidden, "Insufficient permissions"))
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequirePermissions allows the request when the user holds every listed permission.
func RequirePermissions(tokens *auth.TokenIssuer, permissions ...string) fiber.Handler {
	return IsAuthenticated(tokens, permissions, false)
}

// RequireAnyPermission allows the request when the user holds at least one listed permission.
func RequireAnyPermission(tokens *auth.TokenIssuer, permissions ...string) fiber.Handler {
	return IsAuthenticated(tokens, permissions, true)
}

// RequireAuthentication only requires a valid session.
func RequireAuthentication(tokens *auth.TokenIssuer) fiber.Handler {
	return IsAuthenticated(tokens, nil, false)
}

// CurrentPrincipal returns the principal stored by IsAuthenticated, or nil.
func CurrentPrincipal(c *fiber.Ctx) *auth.Principal {
	principal, _ := c.Locals(principalKey).(*auth.Principal)
	return principal
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			return "", types.NewError(types.KindUnauthorized, "Invalid authorization header format")
		}
		return tokenParts[1], nil
	}

	token := c.Cookies("access")
	if token == "" {
		return "", types.NewError(types.KindUnauthorized, "Authorization token missing")
	}
	return token, nil
}

func hasPermissions(p *auth.Principal, required []string, matchAny bool) bool {
	if len(required) == 0 || p.IsSystemAdmin() {
		return true
	}
	for _, perm := range required {
		granted := p.Has(perm)
		if matchAny && granted {
			return true
		}
		if !matchAny && !granted {
			return false
		}
	}
	return !matchAny
}
