package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Model: users
========================= */

type UserModel struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserName     string    `gorm:"type:varchar(100);not null;column:user_name" json:"user_name"`
	UserUsername string    `gorm:"type:varchar(50);not null;uniqueIndex;column:user_username" json:"user_username"`
	UserEmail    string    `gorm:"type:varchar(100);not null;uniqueIndex;column:user_email" json:"user_email"`
	UserPassword string    `gorm:"type:varchar(255);not null;column:user_password" json:"-"`
	UserRole     string    `gorm:"type:varchar(20);not null;default:'LEARNER';column:user_role" json:"user_role"`
	UserIsActive bool      `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`

	// Lockout login (5x gagal → terkunci 15 menit)
	UserFailedLogins int        `gorm:"not null;default:0;column:user_failed_logins" json:"-"`
	UserLockedUntil  *time.Time `gorm:"column:user_locked_until" json:"-"`

	UserCreatedAt time.Time `gorm:"not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// ID dibuat di aplikasi supaya seragam di semua backend DB
func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
