package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/batches/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func BatchRoutes(api fiber.Router, db *gorm.DB) {
	batchCtrl := controller.NewBatchController(db)

	batches := api.Group("/batches")
	batches.Get("/", batchCtrl.GetAllBatches)
	batches.Get("/:id", batchCtrl.GetBatchByID)
	batches.Post("/",
		authMw.OnlyRoles(constants.RoleErrorManager("membuat batch"), constants.ManagerAndAbove...),
		batchCtrl.CreateBatch,
	)
	batches.Put("/:id",
		authMw.OnlyRoles(constants.RoleErrorManager("mengelola batch"), constants.ManagerAndAbove...),
		batchCtrl.UpdateBatch,
	)
	batches.Delete("/:id",
		authMw.OnlyRoles(constants.RoleErrorManager("mengelola batch"), constants.ManagerAndAbove...),
		batchCtrl.DeleteBatch,
	)
}
