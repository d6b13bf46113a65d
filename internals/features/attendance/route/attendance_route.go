package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/attendance/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	attendanceCtrl := controller.NewAttendanceController(db)

	attendances := api.Group("/attendances")
	attendances.Get("/", attendanceCtrl.GetAllAttendance)
	attendances.Get("/learner/:learnerId", attendanceCtrl.GetLearnerAttendance)
	attendances.Get("/:id", attendanceCtrl.GetAttendanceByID)

	// mark: trainer/TA; update: trainer/TA/admin; lock: admin
	attendances.Post("/mark",
		authMw.OnlyRoles(constants.RoleErrorTrainer("pencatatan absensi"), constants.MarkerRoles...),
		attendanceCtrl.MarkAttendance,
	)
	attendances.Put("/:id",
		authMw.OnlyRoles(constants.RoleErrorTrainer("perubahan absensi"), constants.MarkerAndAdmin...),
		attendanceCtrl.UpdateAttendance,
	)
	attendances.Post("/:id/lock",
		authMw.OnlyRoles(constants.RoleErrorAdmin("penguncian absensi"), constants.AdminOnly...),
		attendanceCtrl.LockAttendance,
	)
}
