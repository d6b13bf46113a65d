package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   Model: classrooms
========================= */

type ClassroomModel struct {
	ClassroomID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:classroom_id" json:"classroom_id"`
	ClassroomName       string         `gorm:"type:varchar(150);not null;column:classroom_name" json:"classroom_name"`
	ClassroomCode       string         `gorm:"type:varchar(30);not null;uniqueIndex;column:classroom_code" json:"classroom_code"`
	ClassroomLocation   *string        `gorm:"type:varchar(200);column:classroom_location" json:"classroom_location,omitempty"`
	ClassroomCapacity   int            `gorm:"not null;default:30;column:classroom_capacity" json:"classroom_capacity"`
	ClassroomFacilities datatypes.JSON `gorm:"type:jsonb;column:classroom_facilities" json:"classroom_facilities,omitempty"`
	ClassroomIsActive   bool           `gorm:"not null;default:true;column:classroom_is_active" json:"classroom_is_active"`
	ClassroomCreatedBy  uuid.UUID      `gorm:"type:uuid;not null;column:classroom_created_by" json:"classroom_created_by"`

	ClassroomCreatedAt time.Time `gorm:"not null;autoCreateTime;column:classroom_created_at" json:"classroom_created_at"`
	ClassroomUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:classroom_updated_at" json:"classroom_updated_at"`
}

func (ClassroomModel) TableName() string {
	return "classrooms"
}

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomID == uuid.Nil {
		m.ClassroomID = uuid.New()
	}
	return nil
}
