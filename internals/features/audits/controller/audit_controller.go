package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/features/audits/service"
	helper "pelatihanku_backend/internals/helpers"
)

type AuditController struct {
	Service *service.AuditService
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{Service: service.NewAuditService(db)}
}

// =======================
// 📄 Get Audit Logs (admin)
// Query: ?entity=&action=&page=&limit=
// =======================
func (ctrl *AuditController) GetAuditLogs(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	rows, total, err := ctrl.Service.FindAll(
		c.Query("entity"),
		c.Query("action"),
		paging.Limit,
		paging.Offset,
	)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil audit log")
	}

	return helper.Success(c, "OK", fiber.Map{
		"audit_logs": rows,
		"pagination": fiber.Map{"page": paging.Page, "limit": paging.Limit, "total": total},
	})
}
