package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/dashboard/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func DashboardRoutes(api fiber.Router, db *gorm.DB) {
	dashboardCtrl := controller.NewDashboardController(db)

	dashboard := api.Group("/dashboard",
		authMw.OnlyRoles(constants.RoleErrorStaff("dashboard"), constants.StaffRoles...),
	)
	dashboard.Get("/batches/:batchId/attendance", dashboardCtrl.GetBatchAttendanceStats)
}
