package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/configs"
	"pelatihanku_backend/internals/features/users/dto"
	"pelatihanku_backend/internals/features/users/service"
	helper "pelatihanku_backend/internals/helpers"
)

var validateAuth = validator.New()

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{Service: service.NewAuthService(db, configs.JWTSecret)}
}

// =======================
// 🔐 Login
// =======================
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAuth.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	user, token, err := ctrl.Service.Login(body.Identifier, body.Password)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	return helper.Success(c, "Login berhasil", dto.LoginResponse{
		AccessToken: token,
		User:        dto.ToUserDTO(user),
	})
}

// =======================
// 👤 Me
// =======================
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}
	user, err := ctrl.Service.GetByID(p.ID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", dto.ToUserDTO(user))
}
