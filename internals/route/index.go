package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "pelatihanku_backend/internals/features/attendance/route"
	auditRoute "pelatihanku_backend/internals/features/audits/route"
	batchRoute "pelatihanku_backend/internals/features/batches/route"
	classroomRoute "pelatihanku_backend/internals/features/classrooms/route"
	dailyUpdateRoute "pelatihanku_backend/internals/features/dailyupdates/route"
	dashboardRoute "pelatihanku_backend/internals/features/dashboard/route"
	userRoute "pelatihanku_backend/internals/features/users/route"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH (public login + me) =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(app.Group("/api"), db)

	// ===================== PROTECTED =====================
	api := app.Group("/api", authMw.AuthMiddleware(db))

	log.Println("[INFO] Setting up ClassroomRoutes...")
	classroomRoute.ClassroomRoutes(api, db)

	log.Println("[INFO] Setting up BatchRoutes...")
	batchRoute.BatchRoutes(api, db)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	attendanceRoute.AttendanceRoutes(api, db)

	log.Println("[INFO] Setting up DailyUpdateRoutes...")
	dailyUpdateRoute.DailyUpdateRoutes(api, db)

	log.Println("[INFO] Setting up DashboardRoutes...")
	dashboardRoute.DashboardRoutes(api, db)

	log.Println("[INFO] Setting up AuditRoutes...")
	auditRoute.AuditRoutes(api, db)
}
