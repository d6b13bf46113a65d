package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"pelatihanku_backend/internals/features/attendance/model"
)

// ============================
// Request DTO
// ============================

type AttendanceEntryRequest struct {
	LearnerID uuid.UUID              `json:"learner_id" validate:"required"`
	Status    model.AttendanceStatus `json:"status" validate:"required"`
	Remarks   *string                `json:"remarks"`
}

// Digest harian yang menempel pada ledger. Summary opsional: bila diisi,
// laporan harian (daily update) ikut dibuat dalam transaksi yang sama.
type AttendanceDigestRequest struct {
	Summary        *string                `json:"summary" validate:"omitempty,max=5000"`
	CoveredTopics  []model.CoveredTopic   `json:"covered_topics"`
	TrainerRemarks *string                `json:"trainer_remarks"`
	Assignments    []model.Assignment     `json:"assignments"`
	Performance    *model.Performance     `json:"performance"`
	Issues         *string                `json:"issues"`
}

type MarkAttendanceRequest struct {
	BatchID      uuid.UUID                `json:"batch_id" validate:"required"`
	ClassroomID  *uuid.UUID               `json:"classroom_id"`
	Date         string                   `json:"date" validate:"required,datetime=2006-01-02"`
	SessionStart *time.Time               `json:"session_start"`
	SessionEnd   *time.Time               `json:"session_end"`
	Entries      []AttendanceEntryRequest `json:"entries" validate:"required,min=1,dive"`
	Digest       *AttendanceDigestRequest `json:"digest"`
}

type UpdateAttendanceRequest struct {
	ClassroomID  *uuid.UUID               `json:"classroom_id"`
	SessionStart *time.Time               `json:"session_start"`
	SessionEnd   *time.Time               `json:"session_end"`
	// nil = entri tidak disentuh; non-nil = penggantian menyeluruh
	Entries []AttendanceEntryRequest `json:"entries" validate:"omitempty,min=1,dive"`
	Digest  *AttendanceDigestRequest `json:"digest"`
}

type ListAttendanceQuery struct {
	BatchID   *uuid.UUID
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ============================
// Response DTO
// ============================

type AttendanceRecordDTO struct {
	AttendanceRecordID string                 `json:"attendance_record_id"`
	LearnerID          string                 `json:"learner_id"`
	Status             model.AttendanceStatus `json:"status"`
	Remarks            *string                `json:"remarks,omitempty"`
	MarkedBy           string                 `json:"marked_by"`
	MarkedAt           time.Time              `json:"marked_at"`
}

type AttendanceDTO struct {
	AttendanceID   string     `json:"attendance_id"`
	BatchID        string     `json:"batch_id"`
	ClassroomID    *string    `json:"classroom_id,omitempty"`
	Date           time.Time  `json:"date"`
	SessionStart   *time.Time `json:"session_start,omitempty"`
	SessionEnd     *time.Time `json:"session_end,omitempty"`

	CoveredTopics  datatypes.JSON    `json:"covered_topics,omitempty"`
	TrainerRemarks *string           `json:"trainer_remarks,omitempty"`
	Assignments    datatypes.JSON    `json:"assignments,omitempty"`
	Performance    model.Performance `json:"performance"`
	Issues         *string           `json:"issues,omitempty"`

	IsLocked bool       `json:"is_locked"`
	LockedAt *time.Time `json:"locked_at,omitempty"`
	LockedBy *string    `json:"locked_by,omitempty"`

	Records []AttendanceRecordDTO `json:"records"`

	// Turunan
	PresentCount         int      `json:"present_count"`
	AbsentCount          int      `json:"absent_count"`
	AttendancePercentage int      `json:"attendance_percentage"`
	SessionDurationHours *float64 `json:"session_duration_hours,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Laporan per learner: baris per tanggal + agregat.
type LearnerAttendanceRow struct {
	Date    time.Time              `json:"date"`
	BatchID string                 `json:"batch_id"`
	Status  model.AttendanceStatus `json:"status"`
	Remarks *string                `json:"remarks,omitempty"`
}

type LearnerAttendanceReport struct {
	LearnerID            string                 `json:"learner_id"`
	Rows                 []LearnerAttendanceRow `json:"rows"`
	TotalDays            int                    `json:"total_days"`
	PresentDays          int                    `json:"present_days"`
	AbsentDays           int                    `json:"absent_days"`
	LateDays             int                    `json:"late_days"`
	HalfDays             int                    `json:"half_days"`
	AttendancePercentage string                 `json:"attendance_percentage"` // 2 desimal, "0.00" bila kosong
}

// ============================
// Converter
// ============================

func ToAttendanceDTO(m model.AttendanceModel, now time.Time) AttendanceDTO {
	records := make([]AttendanceRecordDTO, 0, len(m.AttendanceRecords))
	for _, r := range m.AttendanceRecords {
		records = append(records, AttendanceRecordDTO{
			AttendanceRecordID: r.AttendanceRecordID.String(),
			LearnerID:          r.AttendanceRecordLearnerID.String(),
			Status:             r.AttendanceRecordStatus,
			Remarks:            r.AttendanceRecordRemarks,
			MarkedBy:           r.AttendanceRecordMarkedBy.String(),
			MarkedAt:           r.AttendanceRecordMarkedAt,
		})
	}

	var classroomID *string
	if m.AttendanceClassroomID != nil {
		s := m.AttendanceClassroomID.String()
		classroomID = &s
	}
	var lockedBy *string
	if m.AttendanceLockedBy != nil {
		s := m.AttendanceLockedBy.String()
		lockedBy = &s
	}

	return AttendanceDTO{
		AttendanceID:         m.AttendanceID.String(),
		BatchID:              m.AttendanceBatchID.String(),
		ClassroomID:          classroomID,
		Date:                 m.AttendanceDate,
		SessionStart:         m.AttendanceSessionStart,
		SessionEnd:           m.AttendanceSessionEnd,
		CoveredTopics:        m.AttendanceCoveredTopics,
		TrainerRemarks:       m.AttendanceTrainerRemarks,
		Assignments:          m.AttendanceAssignments,
		Performance:          m.AttendancePerformance,
		Issues:               m.AttendanceIssues,
		IsLocked:             m.EffectivelyLocked(now),
		LockedAt:             m.AttendanceLockedAt,
		LockedBy:             lockedBy,
		Records:              records,
		PresentCount:         m.PresentCount(),
		AbsentCount:          m.AbsentCount(),
		AttendancePercentage: m.AttendancePercentage(),
		SessionDurationHours: m.SessionDurationHours(),
		CreatedBy:            m.AttendanceCreatedBy.String(),
		CreatedAt:            m.AttendanceCreatedAt,
		UpdatedAt:            m.AttendanceUpdatedAt,
	}
}
