package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
)

// TokenUserID extracts the authenticated user id from the verified JWT.
func TokenUserID(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, _ := claims["sub"].(string)
	return sub, sub != ""
}

// SameUserOrAdmin allows a request only when the :user_id path parameter
// matches the authenticated user, or the caller is an admin.
func SameUserOrAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminCheck := isAdmin(db, cfg)

	return func(c *fiber.Ctx) error {
		sub, ok := TokenUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if c.Params("user_id") == sub {
			return c.Next()
		}
		if adminCheck(c, sub) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	}
}

// AdminRequired checks config-based admin lists, the admin token header and
// the DB role field.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminCheck := isAdmin(db, cfg)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		sub, ok := TokenUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if adminCheck(c, sub) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func isAdmin(db *gorm.DB, cfg *config.Config) func(c *fiber.Ctx, sub string) bool {
	adminUserIDs := parseCSV(cfg.AdminUserIDs)
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx, sub string) bool {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return true
		}
		if contains(adminUserIDs, sub) {
			return true
		}

		var user models.User
		if err := db.First(&user, "id = ?", sub).Error; err != nil {
			return false
		}
		return user.Role == "admin" || contains(adminEmails, user.Email)
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
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
