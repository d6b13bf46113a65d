package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceStatusLeave   AttendanceStatus = "LEAVE"
	AttendanceStatusHoliday AttendanceStatus = "HOLIDAY"
)

func IsValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusHalfDay, AttendanceStatusLeave, AttendanceStatusHoliday:
		return true
	}
	return false
}

// IsPresentStatus adalah satu-satunya definisi "hadir" untuk seluruh
// perhitungan statistik (ledger, laporan learner, dashboard).
func IsPresentStatus(s AttendanceStatus) bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusHalfDay:
		return true
	}
	return false
}

type Performance string

const (
	PerformanceExcellent        Performance = "EXCELLENT"
	PerformanceGood             Performance = "GOOD"
	PerformanceAverage          Performance = "AVERAGE"
	PerformanceNeedsImprovement Performance = "NEEDS_IMPROVEMENT"
	PerformancePoor             Performance = "POOR"
)

func IsValidPerformance(p Performance) bool {
	switch p {
	case PerformanceExcellent, PerformanceGood, PerformanceAverage,
		PerformanceNeedsImprovement, PerformancePoor:
		return true
	}
	return false
}

/* =========================
   Embedded JSON types
========================= */

type CoveredTopic struct {
	Topic           string `json:"topic"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type Assignment struct {
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

/* =========================================
   Model: attendances (satu batch, satu tanggal)
========================================= */

type AttendanceModel struct {
	AttendanceID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`
	AttendanceBatchID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_batch_date;column:attendance_batch_id" json:"attendance_batch_id"`
	AttendanceClassroomID *uuid.UUID `gorm:"type:uuid;column:attendance_classroom_id" json:"attendance_classroom_id,omitempty"`
	AttendanceDate        time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_batch_date;column:attendance_date" json:"attendance_date"`

	AttendanceSessionStart *time.Time `gorm:"column:attendance_session_start" json:"attendance_session_start,omitempty"`
	AttendanceSessionEnd   *time.Time `gorm:"column:attendance_session_end" json:"attendance_session_end,omitempty"`

	// Digest harian (embedded, bukan relasi)
	AttendanceCoveredTopics  datatypes.JSON `gorm:"type:jsonb;column:attendance_covered_topics" json:"attendance_covered_topics,omitempty"`
	AttendanceTrainerRemarks *string        `gorm:"type:text;column:attendance_trainer_remarks" json:"attendance_trainer_remarks,omitempty"`
	AttendanceAssignments    datatypes.JSON `gorm:"type:jsonb;column:attendance_assignments" json:"attendance_assignments,omitempty"`
	AttendancePerformance    Performance    `gorm:"type:varchar(20);not null;default:'AVERAGE';column:attendance_performance" json:"attendance_performance"`
	AttendanceIssues         *string        `gorm:"type:text;column:attendance_issues" json:"attendance_issues,omitempty"`

	// Lock (auto 24 jam; locked_by NULL = dikunci sistem)
	AttendanceIsLocked bool       `gorm:"not null;default:false;column:attendance_is_locked" json:"attendance_is_locked"`
	AttendanceLockedAt *time.Time `gorm:"column:attendance_locked_at" json:"attendance_locked_at,omitempty"`
	AttendanceLockedBy *uuid.UUID `gorm:"type:uuid;column:attendance_locked_by" json:"attendance_locked_by,omitempty"`

	AttendanceCreatedBy uuid.UUID  `gorm:"type:uuid;not null;column:attendance_created_by" json:"attendance_created_by"`
	AttendanceUpdatedBy *uuid.UUID `gorm:"type:uuid;column:attendance_updated_by" json:"attendance_updated_by,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"not null;autoCreateTime;column:attendance_created_at" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:attendance_updated_at" json:"attendance_updated_at"`

	AttendanceRecords []AttendanceRecordModel `gorm:"foreignKey:AttendanceRecordAttendanceID;references:AttendanceID" json:"attendance_records,omitempty"`
}

func (AttendanceModel) TableName() string {
	return "attendances"
}

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}

// PresentCount menghitung entri dengan status himpunan hadir.
func (m *AttendanceModel) PresentCount() int {
	n := 0
	for _, r := range m.AttendanceRecords {
		if IsPresentStatus(r.AttendanceRecordStatus) {
			n++
		}
	}
	return n
}

func (m *AttendanceModel) AbsentCount() int {
	n := 0
	for _, r := range m.AttendanceRecords {
		if r.AttendanceRecordStatus == AttendanceStatusAbsent {
			n++
		}
	}
	return n
}

// AttendancePercentage: hadir/total*100 dibulatkan; 0 bila tanpa entri.
func (m *AttendanceModel) AttendancePercentage() int {
	total := len(m.AttendanceRecords)
	if total == 0 {
		return 0
	}
	return int(float64(m.PresentCount())/float64(total)*100 + 0.5)
}

// SessionDurationHours: durasi sesi dalam jam, nil bila start/end kosong.
func (m *AttendanceModel) SessionDurationHours() *float64 {
	if m.AttendanceSessionStart == nil || m.AttendanceSessionEnd == nil {
		return nil
	}
	h := m.AttendanceSessionEnd.Sub(*m.AttendanceSessionStart).Hours()
	h = float64(int(h*100+0.5)) / 100
	return &h
}

/* =========================================
   Model: attendance_records (per learner)
========================================= */

type AttendanceRecordModel struct {
	AttendanceRecordID           uuid.UUID        `gorm:"type:uuid;primaryKey;column:attendance_record_id" json:"attendance_record_id"`
	AttendanceRecordAttendanceID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_record_pair;column:attendance_record_attendance_id" json:"attendance_record_attendance_id"`
	AttendanceRecordLearnerID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_record_pair;column:attendance_record_learner_id" json:"attendance_record_learner_id"`
	AttendanceRecordStatus       AttendanceStatus `gorm:"type:varchar(20);not null;column:attendance_record_status" json:"attendance_record_status"`
	AttendanceRecordRemarks      *string          `gorm:"type:text;column:attendance_record_remarks" json:"attendance_record_remarks,omitempty"`
	AttendanceRecordMarkedBy     uuid.UUID        `gorm:"type:uuid;not null;column:attendance_record_marked_by" json:"attendance_record_marked_by"`
	AttendanceRecordMarkedAt     time.Time        `gorm:"not null;column:attendance_record_marked_at" json:"attendance_record_marked_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	return nil
}
