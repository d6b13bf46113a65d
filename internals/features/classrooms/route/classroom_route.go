package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/classrooms/controller"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

func ClassroomRoutes(api fiber.Router, db *gorm.DB) {
	classroomCtrl := controller.NewClassroomController(db)

	classrooms := api.Group("/classrooms")
	classrooms.Get("/", classroomCtrl.GetAllClassrooms)
	classrooms.Get("/:id", classroomCtrl.GetClassroomByID)
	classrooms.Post("/",
		authMw.OnlyRoles(constants.RoleErrorAdmin("membuat ruang kelas"), constants.AdminOnly...),
		classroomCtrl.CreateClassroom,
	)
	classrooms.Put("/:id",
		authMw.OnlyRoles(constants.RoleErrorAdmin("memperbarui ruang kelas"), constants.AdminOnly...),
		classroomCtrl.UpdateClassroom,
	)
}
