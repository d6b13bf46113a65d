package dto

import (
	"time"

	"pelatihanku_backend/internals/features/users/model"
)

// ============================
// Response DTO
// ============================

type UserDTO struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserUsername string    `json:"user_username"`
	UserEmail    string    `json:"user_email"`
	UserRole     string    `json:"user_role"`
	UserIsActive bool      `json:"user_is_active"`
	UserCreatedAt time.Time `json:"user_created_at"`
}

// ============================
// Request DTO
// ============================

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // username atau email
	Password   string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

// ============================
// Converter
// ============================

func ToUserDTO(m model.UserModel) UserDTO {
	return UserDTO{
		UserID:        m.UserID.String(),
		UserName:      m.UserName,
		UserUsername:  m.UserUsername,
		UserEmail:     m.UserEmail,
		UserRole:      m.UserRole,
		UserIsActive:  m.UserIsActive,
		UserCreatedAt: m.UserCreatedAt,
	}
}
