package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attendanceModel "pelatihanku_backend/internals/features/attendance/model"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type Mood string

const (
	MoodExcellent   Mood = "EXCELLENT"
	MoodGood        Mood = "GOOD"
	MoodNeutral     Mood = "NEUTRAL"
	MoodChallenging Mood = "CHALLENGING"
	MoodDifficult   Mood = "DIFFICULT"
)

var AllMoods = []Mood{MoodExcellent, MoodGood, MoodNeutral, MoodChallenging, MoodDifficult}

func IsValidMood(m Mood) bool {
	for _, mood := range AllMoods {
		if mood == m {
			return true
		}
	}
	return false
}

// MoodToPerformance memetakan mood laporan harian ke performance ledger
// saat digest didorong ke baris absensi.
func MoodToPerformance(m Mood) attendanceModel.Performance {
	switch m {
	case MoodExcellent:
		return attendanceModel.PerformanceExcellent
	case MoodGood:
		return attendanceModel.PerformanceGood
	case MoodChallenging:
		return attendanceModel.PerformanceNeedsImprovement
	case MoodDifficult:
		return attendanceModel.PerformancePoor
	default:
		return attendanceModel.PerformanceAverage
	}
}

type UpdateStatus string

const (
	UpdateStatusDraft     UpdateStatus = "DRAFT"
	UpdateStatusPublished UpdateStatus = "PUBLISHED"
	UpdateStatusArchived  UpdateStatus = "ARCHIVED"
)

func IsValidUpdateStatus(s UpdateStatus) bool {
	switch s {
	case UpdateStatusDraft, UpdateStatusPublished, UpdateStatusArchived:
		return true
	}
	return false
}

type ChallengeType string

const (
	ChallengeTechnical      ChallengeType = "TECHNICAL"
	ChallengeContent        ChallengeType = "CONTENT"
	ChallengeLearner        ChallengeType = "LEARNER"
	ChallengeInfrastructure ChallengeType = "INFRASTRUCTURE"
	ChallengeSchedule       ChallengeType = "SCHEDULE"
	ChallengeOther          ChallengeType = "OTHER"
)

var AllChallengeTypes = []ChallengeType{
	ChallengeTechnical, ChallengeContent, ChallengeLearner,
	ChallengeInfrastructure, ChallengeSchedule, ChallengeOther,
}

/* =========================
   Embedded JSON types
========================= */

type Highlight struct {
	LearnerID       string `json:"learner_id"`
	Achievement     string `json:"achievement,omitempty"`
	ImprovementArea string `json:"improvement_area,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

type Challenge struct {
	Type        ChallengeType `json:"type"`
	Description string        `json:"description"`
	Severity    string        `json:"severity,omitempty"`   // LOW|MEDIUM|HIGH|CRITICAL
	Resolution  string        `json:"resolution,omitempty"`
	Status      string        `json:"status,omitempty"`     // OPEN|IN_PROGRESS|RESOLVED|ESCALATED
}

/* =========================================
   Model: daily_updates (satu batch, satu tanggal)
========================================= */

type DailyUpdateModel struct {
	DailyUpdateID       uuid.UUID `gorm:"type:uuid;primaryKey;column:daily_update_id" json:"daily_update_id"`
	DailyUpdateBatchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_update_batch_date;column:daily_update_batch_id" json:"daily_update_batch_id"`
	DailyUpdateDate     time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_update_batch_date;column:daily_update_date" json:"daily_update_date"`
	DailyUpdatePostedBy uuid.UUID `gorm:"type:uuid;not null;column:daily_update_posted_by" json:"daily_update_posted_by"`

	DailyUpdateSummary    string         `gorm:"type:text;not null;column:daily_update_summary" json:"daily_update_summary"`
	DailyUpdateTopics     datatypes.JSON `gorm:"type:jsonb;column:daily_update_topics" json:"daily_update_topics,omitempty"`
	DailyUpdateHighlights datatypes.JSON `gorm:"type:jsonb;column:daily_update_highlights" json:"daily_update_highlights,omitempty"`
	DailyUpdateChallenges datatypes.JSON `gorm:"type:jsonb;column:daily_update_challenges" json:"daily_update_challenges,omitempty"`

	DailyUpdateOverallMood Mood `gorm:"type:varchar(20);not null;default:'NEUTRAL';column:daily_update_overall_mood" json:"daily_update_overall_mood"`
	DailyUpdateCompletion  int  `gorm:"not null;default:0;column:daily_update_completion" json:"daily_update_completion"`

	// Subset dari {MANAGER, TEAM_LEADER, TRAINER, TA}
	DailyUpdateVisibility datatypes.JSON `gorm:"type:jsonb;column:daily_update_visibility" json:"daily_update_visibility"`
	DailyUpdateStatus     UpdateStatus   `gorm:"type:varchar(20);not null;default:'PUBLISHED';column:daily_update_status" json:"daily_update_status"`

	DailyUpdateCreatedAt time.Time `gorm:"not null;autoCreateTime;column:daily_update_created_at" json:"daily_update_created_at"`
	DailyUpdateUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:daily_update_updated_at" json:"daily_update_updated_at"`

	DailyUpdateFeedbacks []DailyUpdateFeedbackModel `gorm:"foreignKey:FeedbackDailyUpdateID;references:DailyUpdateID" json:"daily_update_feedbacks,omitempty"`
}

func (DailyUpdateModel) TableName() string {
	return "daily_updates"
}

func (m *DailyUpdateModel) BeforeCreate(tx *gorm.DB) error {
	if m.DailyUpdateID == uuid.Nil {
		m.DailyUpdateID = uuid.New()
	}
	return nil
}

/* =========================================
   Model: daily_update_feedbacks
========================================= */

type DailyUpdateFeedbackModel struct {
	FeedbackID            uuid.UUID      `gorm:"type:uuid;primaryKey;column:feedback_id" json:"feedback_id"`
	FeedbackDailyUpdateID uuid.UUID      `gorm:"type:uuid;not null;index;column:feedback_daily_update_id" json:"feedback_daily_update_id"`
	FeedbackGivenBy       uuid.UUID      `gorm:"type:uuid;not null;column:feedback_given_by" json:"feedback_given_by"`
	FeedbackComment       string         `gorm:"type:text;not null;column:feedback_comment" json:"feedback_comment"`
	FeedbackSuggestions   datatypes.JSON `gorm:"type:jsonb;column:feedback_suggestions" json:"feedback_suggestions,omitempty"`
	FeedbackRating        int            `gorm:"not null;default:5;column:feedback_rating" json:"feedback_rating"`
	FeedbackGivenAt       time.Time      `gorm:"not null;column:feedback_given_at" json:"feedback_given_at"`
}

func (DailyUpdateFeedbackModel) TableName() string {
	return "daily_update_feedbacks"
}

func (m *DailyUpdateFeedbackModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeedbackID == uuid.Nil {
		m.FeedbackID = uuid.New()
	}
	return nil
}
