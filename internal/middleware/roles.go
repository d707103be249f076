package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRequired admits a request when any of these hold:
// 1. X-Admin-Token matches the configured admin token
// 2. the token email is in ADMIN_EMAILS
// 3. the user's role in the database is one of roles (admin always passes)
//
// The resolved role is stored in c.Locals("role").
func RoleRequired(db *gorm.DB, cfg *config.Config, roles ...string) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			c.Locals("role", models.RoleAdmin)
			return c.Next()
		}

		claims, ok := identity.Claims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized", Status: fiber.StatusUnauthorized, Code: dto.CodeUnauthorized,
			})
		}

		email, _ := claims["email"].(string)
		if contains(adminEmails, strings.ToLower(email)) {
			c.Locals("role", models.RoleAdmin)
			return c.Next()
		}

		sub, _ := claims["sub"].(string)
		if userID, err := uuid.Parse(sub); err == nil {
			var user models.UserProfile
			if err := db.Select("id", "role").First(&user, "id = ?", userID).Error; err == nil {
				if user.Role == models.RoleAdmin || contains(roles, user.Role) {
					c.Locals("role", user.Role)
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Insufficient permissions",
			Status:  fiber.StatusForbidden,
			Code:    dto.CodeForbidden,
		})
	}
}

func ModeratorRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return RoleRequired(db, cfg, models.RoleModerator, models.RoleAdmin)
}

func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return RoleRequired(db, cfg, models.RoleAdmin)
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
