package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/services"
)

const claimsKey = "claims"

type AuthMiddleware struct {
	Auth *services.AuthService
}

func NewAuthMiddleware(auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{Auth: auth}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*services.Claims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	claims, err := m.Auth.Verify(token)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	if claims.TokenType != services.TokenTypeAccess {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "not an access token")
	}
	return claims, nil
}

// RequireAuth admits any authenticated user.
func (m *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	claims, err := m.authenticate(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireAdmin admits staff users only.
func (m *AuthMiddleware) RequireAdmin(c *fiber.Ctx) error {
	claims, err := m.authenticate(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}
	if !claims.IsStaff {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "admin access required",
		})
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// actorID returns the authenticated user's id. Routes behind the
// middleware always have claims; uuid.Nil only appears if a route is
// wired without it.
func actorID(c *fiber.Ctx) uuid.UUID {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
