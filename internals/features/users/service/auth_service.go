package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/features/users/model"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	accessTokenTTL  = 24 * time.Hour
)

type AuthService struct {
	DB        *gorm.DB
	JWTSecret string
}

func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{DB: db, JWTSecret: secret}
}

// Login mencari user by username/email, cek lockout, verifikasi bcrypt,
// lalu terbitkan access token HS256 dengan klaim {id, role, user_name}.
func (s *AuthService) Login(identifier, password string) (model.UserModel, string, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))

	var user model.UserModel
	err := s.DB.
		Where("user_username = ? OR user_email = ?", identifier, identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserModel{}, "", apperr.Validation("Username/email atau password salah")
	}
	if err != nil {
		return model.UserModel{}, "", apperr.Wrap(apperr.KindInternal, "cek user", err)
	}

	if !user.UserIsActive {
		return model.UserModel{}, "", apperr.Forbidden("Akun Anda telah dinonaktifkan")
	}

	now := time.Now()
	if user.UserLockedUntil != nil && now.Before(*user.UserLockedUntil) {
		return model.UserModel{}, "", apperr.Forbidden("Akun terkunci sementara. Coba lagi nanti")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(password)); err != nil {
		s.recordFailedLogin(&user, now)
		return model.UserModel{}, "", apperr.Validation("Username/email atau password salah")
	}

	// reset counter setelah login sukses
	if user.UserFailedLogins > 0 || user.UserLockedUntil != nil {
		s.DB.Model(&user).Updates(map[string]interface{}{
			"user_failed_logins": 0,
			"user_locked_until":  nil,
		})
	}

	token, err := s.issueAccessToken(user, now)
	if err != nil {
		return model.UserModel{}, "", apperr.Wrap(apperr.KindInternal, "terbitkan token", err)
	}
	return user, token, nil
}

func (s *AuthService) GetByID(id uuid.UUID) (model.UserModel, error) {
	var user model.UserModel
	err := s.DB.First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserModel{}, apperr.NotFound("User tidak ditemukan")
	}
	if err != nil {
		return model.UserModel{}, apperr.Wrap(apperr.KindInternal, "ambil user", err)
	}
	return user, nil
}

func (s *AuthService) recordFailedLogin(user *model.UserModel, now time.Time) {
	attempts := user.UserFailedLogins + 1
	updates := map[string]interface{}{"user_failed_logins": attempts}
	if attempts >= maxFailedLogins {
		lockedUntil := now.Add(lockoutDuration)
		updates["user_locked_until"] = lockedUntil
		updates["user_failed_logins"] = 0
	}
	s.DB.Model(user).Updates(updates)
}

func (s *AuthService) issueAccessToken(user model.UserModel, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":        user.UserID.String(),
		"role":      user.UserRole,
		"user_name": user.UserName,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.JWTSecret))
}
