package dto

import (
	"time"

	"gorm.io/datatypes"

	"pelatihanku_backend/internals/features/classrooms/model"
)

// ============================
// Response DTO
// ============================

type ClassroomDTO struct {
	ClassroomID         string         `json:"classroom_id"`
	ClassroomName       string         `json:"classroom_name"`
	ClassroomCode       string         `json:"classroom_code"`
	ClassroomLocation   *string        `json:"classroom_location,omitempty"`
	ClassroomCapacity   int            `json:"classroom_capacity"`
	ClassroomFacilities datatypes.JSON `json:"classroom_facilities,omitempty"`
	ClassroomIsActive   bool           `json:"classroom_is_active"`
	ClassroomCreatedAt  time.Time      `json:"classroom_created_at"`
}

// ============================
// Request DTO
// ============================

type CreateClassroomRequest struct {
	ClassroomName       string         `json:"classroom_name" validate:"required,min=3,max=150"`
	ClassroomCode       string         `json:"classroom_code" validate:"required,min=2,max=30"`
	ClassroomLocation   *string        `json:"classroom_location"`
	ClassroomCapacity   *int           `json:"classroom_capacity" validate:"omitempty,min=1,max=500"`
	ClassroomFacilities datatypes.JSON `json:"classroom_facilities"`
}

type UpdateClassroomRequest struct {
	ClassroomName       *string        `json:"classroom_name" validate:"omitempty,min=3,max=150"`
	ClassroomLocation   *string        `json:"classroom_location"`
	ClassroomCapacity   *int           `json:"classroom_capacity" validate:"omitempty,min=1,max=500"`
	ClassroomFacilities datatypes.JSON `json:"classroom_facilities"`
	ClassroomIsActive   *bool          `json:"classroom_is_active"`
}

// ============================
// Converter
// ============================

func ToClassroomDTO(m model.ClassroomModel) ClassroomDTO {
	return ClassroomDTO{
		ClassroomID:         m.ClassroomID.String(),
		ClassroomName:       m.ClassroomName,
		ClassroomCode:       m.ClassroomCode,
		ClassroomLocation:   m.ClassroomLocation,
		ClassroomCapacity:   m.ClassroomCapacity,
		ClassroomFacilities: m.ClassroomFacilities,
		ClassroomIsActive:   m.ClassroomIsActive,
		ClassroomCreatedAt:  m.ClassroomCreatedAt,
	}
}
