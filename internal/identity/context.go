package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

// Claims returns the JWT claims stored by the auth middleware, if any.
func Claims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := Claims(c)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

func GetEmail(c *fiber.Ctx) string {
	claims, ok := Claims(c)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// GetRole returns the role claim. RoleRequired may overwrite it with the
// role stored in the database, so handlers behind it see the fresh value.
func GetRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("role").(string); ok {
		return role
	}
	claims, ok := Claims(c)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
