package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/dailyupdates/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func DailyUpdateRoutes(api fiber.Router, db *gorm.DB) {
	updateCtrl := controller.NewDailyUpdateController(db)

	updates := api.Group("/daily-updates")
	updates.Get("/", updateCtrl.GetAllDailyUpdates)
	updates.Get("/batch/:batchId/summary", updateCtrl.SummarizeBatch)
	updates.Get("/:id", updateCtrl.GetDailyUpdateByID)

	// create: trainer/TA; update: trainer/TA/admin; feedback: manager/team leader
	updates.Post("/",
		authMw.OnlyRoles(constants.RoleErrorTrainer("pembuatan laporan harian"), constants.MarkerRoles...),
		updateCtrl.CreateDailyUpdate,
	)
	updates.Put("/:id",
		authMw.OnlyRoles(constants.RoleErrorTrainer("perubahan laporan harian"), constants.MarkerAndAdmin...),
		updateCtrl.UpdateDailyUpdate,
	)
	updates.Post("/:id/feedback",
		authMw.OnlyRoles(constants.RoleErrorReviewer("feedback laporan harian"), constants.ReviewerRoles...),
		updateCtrl.AddFeedback,
	)
}
