package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pelatihanku_backend/internals/access"
)

// GetPrincipal membaca identitas user dari Locals yang diisi oleh AuthMiddleware.
func GetPrincipal(c *fiber.Ctx) (access.Principal, error) {
	rawID, ok := c.Locals("user_id").(string)
	if !ok || rawID == "" {
		return access.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: user ID tidak ditemukan")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return access.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: user ID tidak valid")
	}
	role, _ := c.Locals("userRole").(string)
	return access.Principal{ID: id, Role: role}, nil
}
