package middleware

import (
	"errors"

	"quizgate/database"
	"quizgate/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LoadUser resolves the authenticated user and stores it under "user", with
// the admin flag under "isAdmin". Must run after JWTMiddleware.
func LoadUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var user models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading user!", nil)
	}

	c.Locals("user", user)
	c.Locals("isAdmin", user.IsAdmin())
	return c.Next()
}

// AdminOnly rejects callers that LoadUser did not mark as administrators.
func AdminOnly(c *fiber.Ctx) error {
	if isAdmin, _ := c.Locals("isAdmin").(bool); !isAdmin {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
	return c.Next()
}
