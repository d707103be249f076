package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// FlagReader reads boolean feature flags.
type FlagReader interface {
	Bool(key string, fallback bool) bool
}

// maintenanceExempt are path prefixes that keep accepting writes so admins
// can sign in and switch maintenance off again.
var maintenanceExempt = []string{
	"/api/admin/",
	"/api/auth/login",
	"/api/auth/refresh",
}

// Maintenance answers writes with 503 while the maintenance_mode flag is on.
// Reads are always served.
func Maintenance(flags FlagReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		path := c.Path()
		for _, prefix := range maintenanceExempt {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}
		if !flags.Bool("maintenance_mode", false) {
			return c.Next()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "The service is in maintenance mode. Try again later.",
			Status:  fiber.StatusServiceUnavailable,
			Code:    dto.CodeUnavailable,
		})
	}
}
