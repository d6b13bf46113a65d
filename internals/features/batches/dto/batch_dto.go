package dto

import (
	"time"

	"github.com/google/uuid"

	"pelatihanku_backend/internals/features/batches/model"
)

// ============================
// Response DTO
// ============================

type BatchDTO struct {
	BatchID          string            `json:"batch_id"`
	BatchName        string            `json:"batch_name"`
	BatchCode        string            `json:"batch_code"`
	BatchDescription *string           `json:"batch_description,omitempty"`
	BatchClientName  *string           `json:"batch_client_name,omitempty"`
	BatchStartDate   time.Time         `json:"batch_start_date"`
	BatchEndDate     time.Time         `json:"batch_end_date"`
	BatchStatus      model.BatchStatus `json:"batch_status"`
	BatchCreatedBy   string            `json:"batch_created_by"`
	BatchLearnerIDs  []string          `json:"batch_learner_ids"`

	// Turunan (tidak disimpan)
	BatchDurationDays int `json:"batch_duration_days"`
	BatchProgress     int `json:"batch_progress"`

	BatchCreatedAt time.Time `json:"batch_created_at"`
}

// ============================
// Request DTO
// ============================

type CreateBatchRequest struct {
	BatchName        string      `json:"batch_name" validate:"required,min=3,max=150"`
	BatchCode        string      `json:"batch_code" validate:"required,min=2,max=30"`
	BatchDescription *string     `json:"batch_description"`
	BatchClientName  *string     `json:"batch_client_name"`
	BatchStartDate   string      `json:"batch_start_date" validate:"required,datetime=2006-01-02"`
	BatchEndDate     string      `json:"batch_end_date" validate:"required,datetime=2006-01-02"`
	BatchLearnerIDs  []uuid.UUID `json:"batch_learner_ids"`
}

type UpdateBatchRequest struct {
	BatchName        *string            `json:"batch_name" validate:"omitempty,min=3,max=150"`
	BatchDescription *string            `json:"batch_description"`
	BatchClientName  *string            `json:"batch_client_name"`
	BatchStartDate   *string            `json:"batch_start_date" validate:"omitempty,datetime=2006-01-02"`
	BatchEndDate     *string            `json:"batch_end_date" validate:"omitempty,datetime=2006-01-02"`
	BatchStatus      *model.BatchStatus `json:"batch_status"`
	BatchLearnerIDs  *[]uuid.UUID       `json:"batch_learner_ids"` // nil = roster tidak diubah
}

// ============================
// Converter
// ============================

func ToBatchDTO(m model.BatchModel, now time.Time) BatchDTO {
	learnerIDs := make([]string, 0, len(m.BatchLearners))
	for _, bl := range m.BatchLearners {
		learnerIDs = append(learnerIDs, bl.BatchLearnerUserID.String())
	}
	return BatchDTO{
		BatchID:           m.BatchID.String(),
		BatchName:         m.BatchName,
		BatchCode:         m.BatchCode,
		BatchDescription:  m.BatchDescription,
		BatchClientName:   m.BatchClientName,
		BatchStartDate:    m.BatchStartDate,
		BatchEndDate:      m.BatchEndDate,
		BatchStatus:       m.BatchStatus,
		BatchCreatedBy:    m.BatchCreatedBy.String(),
		BatchLearnerIDs:   learnerIDs,
		BatchDurationDays: m.DurationDays(),
		BatchProgress:     m.Progress(now),
		BatchCreatedAt:    m.BatchCreatedAt,
	}
}
