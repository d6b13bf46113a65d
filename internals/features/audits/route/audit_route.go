package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/audits/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func AuditRoutes(api fiber.Router, db *gorm.DB) {
	auditCtrl := controller.NewAuditController(db)

	audits := api.Group("/audit-logs",
		authMw.OnlyRoles(constants.RoleErrorAdmin("audit log"), constants.AdminOnly...),
	)
	audits.Get("/", auditCtrl.GetAuditLogs)
}
