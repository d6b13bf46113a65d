package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/features/dashboard/service"
	helper "pelatihanku_backend/internals/helpers"
)

type DashboardController struct {
	Service *service.DashboardService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{Service: service.NewDashboardService(db)}
}

// =======================
// 📊 Batch Attendance Stats
// Path: /dashboard/batches/:batchId/attendance
// =======================
func (ctrl *DashboardController) GetBatchAttendanceStats(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batchId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "start_date tidak valid")
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "end_date tidak valid")
		}
		end = &t
	}

	stats, err := ctrl.Service.BatchStats(batchID, start, end)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", stats)
}
