package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type BatchStatus string

const (
	BatchStatusPlanning  BatchStatus = "PLANNING"
	BatchStatusOngoing   BatchStatus = "ONGOING"
	BatchStatusCompleted BatchStatus = "COMPLETED"
	BatchStatusCancelled BatchStatus = "CANCELLED"
)

func IsValidBatchStatus(s BatchStatus) bool {
	switch s {
	case BatchStatusPlanning, BatchStatusOngoing, BatchStatusCompleted, BatchStatusCancelled:
		return true
	}
	return false
}

/* =========================
   Model: batches
========================= */

type BatchModel struct {
	BatchID          uuid.UUID   `gorm:"type:uuid;primaryKey;column:batch_id" json:"batch_id"`
	BatchName        string      `gorm:"type:varchar(150);not null;column:batch_name" json:"batch_name"`
	BatchCode        string      `gorm:"type:varchar(30);not null;uniqueIndex;column:batch_code" json:"batch_code"`
	BatchDescription *string     `gorm:"type:text;column:batch_description" json:"batch_description,omitempty"`
	BatchClientName  *string     `gorm:"type:varchar(150);column:batch_client_name" json:"batch_client_name,omitempty"`
	BatchStartDate   time.Time   `gorm:"type:date;not null;column:batch_start_date" json:"batch_start_date"`
	BatchEndDate     time.Time   `gorm:"type:date;not null;column:batch_end_date" json:"batch_end_date"`
	BatchStatus      BatchStatus `gorm:"type:varchar(20);not null;default:'PLANNING';column:batch_status" json:"batch_status"`
	BatchCreatedBy   uuid.UUID   `gorm:"type:uuid;not null;column:batch_created_by" json:"batch_created_by"`

	BatchCreatedAt time.Time `gorm:"not null;autoCreateTime;column:batch_created_at" json:"batch_created_at"`
	BatchUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:batch_updated_at" json:"batch_updated_at"`

	// Roster via join table
	BatchLearners []BatchLearnerModel `gorm:"foreignKey:BatchLearnerBatchID;references:BatchID" json:"batch_learners,omitempty"`
}

func (BatchModel) TableName() string {
	return "batches"
}

func (m *BatchModel) BeforeCreate(tx *gorm.DB) error {
	if m.BatchID == uuid.Nil {
		m.BatchID = uuid.New()
	}
	return nil
}

// DurationDays = ceil(selisih jam / 24), minimal pembulatan ke atas per hari
func (m *BatchModel) DurationDays() int {
	diff := m.BatchEndDate.Sub(m.BatchStartDate).Hours()
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff / 24))
}

// Progress dalam persen: COMPLETED=100, CANCELLED=0, selainnya proporsi hari berjalan.
func (m *BatchModel) Progress(now time.Time) int {
	switch m.BatchStatus {
	case BatchStatusCompleted:
		return 100
	case BatchStatusCancelled:
		return 0
	}
	duration := m.DurationDays()
	if duration == 0 {
		return 0
	}
	passed := now.Sub(m.BatchStartDate).Hours() / 24
	pct := int(math.Round(passed / float64(duration) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

/* =========================
   Model: batch_learners
========================= */

type BatchLearnerModel struct {
	BatchLearnerID      uuid.UUID `gorm:"type:uuid;primaryKey;column:batch_learner_id" json:"batch_learner_id"`
	BatchLearnerBatchID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batch_learner_pair;column:batch_learner_batch_id" json:"batch_learner_batch_id"`
	BatchLearnerUserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batch_learner_pair;column:batch_learner_user_id" json:"batch_learner_user_id"`

	BatchLearnerCreatedAt time.Time `gorm:"not null;autoCreateTime;column:batch_learner_created_at" json:"batch_learner_created_at"`
}

func (BatchLearnerModel) TableName() string {
	return "batch_learners"
}

func (m *BatchLearnerModel) BeforeCreate(tx *gorm.DB) error {
	if m.BatchLearnerID == uuid.Nil {
		m.BatchLearnerID = uuid.New()
	}
	return nil
}
