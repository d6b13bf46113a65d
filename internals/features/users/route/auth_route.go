package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/features/users/controller"
	"pelatihanku_backend/internals/middlewares"
	authMw "pelatihanku_backend/internals/middlewares/auth"
)

// Public: login. Protected: me.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authCtrl := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), authCtrl.Login)
	auth.Get("/me", authMw.AuthMiddleware(db), authCtrl.Me)
}
