package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	attendanceDto "pelatihanku_backend/internals/features/attendance/dto"
	"pelatihanku_backend/internals/features/dailyupdates/model"
)

// ============================
// Request DTO
// ============================

type CreateDailyUpdateRequest struct {
	BatchID    uuid.UUID          `json:"batch_id" validate:"required"`
	Date       string             `json:"date" validate:"required,datetime=2006-01-02"`
	Summary    string             `json:"summary" validate:"required,min=1,max=5000"`
	Topics     []string           `json:"topics"`
	Highlights []model.Highlight  `json:"highlights"`
	Challenges []model.Challenge  `json:"challenges"`
	Mood       *model.Mood        `json:"overall_mood"`
	Completion *int               `json:"completion" validate:"omitempty,min=0,max=100"`
	Visibility []string           `json:"visibility"`
	Status     *model.UpdateStatus `json:"status"`
}

type UpdateDailyUpdateRequest struct {
	Summary    *string             `json:"summary" validate:"omitempty,min=1,max=5000"`
	Topics     []string            `json:"topics"`
	Highlights []model.Highlight   `json:"highlights"`
	Challenges []model.Challenge   `json:"challenges"`
	Mood       *model.Mood         `json:"overall_mood"`
	Completion *int                `json:"completion" validate:"omitempty,min=0,max=100"`
	Visibility []string            `json:"visibility"`
	Status     *model.UpdateStatus `json:"status"`
}

type AddFeedbackRequest struct {
	Comment     string   `json:"comment" validate:"required,min=1"`
	Suggestions []string `json:"suggestions"`
	Rating      *int     `json:"rating" validate:"omitempty,min=1,max=5"`
}

type ListDailyUpdateQuery struct {
	BatchID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ============================
// Response DTO
// ============================

type FeedbackDTO struct {
	FeedbackID  string         `json:"feedback_id"`
	GivenBy     string         `json:"given_by"`
	Comment     string         `json:"comment"`
	Suggestions datatypes.JSON `json:"suggestions,omitempty"`
	Rating      int            `json:"rating"`
	GivenAt     time.Time      `json:"given_at"`
}

type DailyUpdateDTO struct {
	DailyUpdateID string    `json:"daily_update_id"`
	BatchID       string    `json:"batch_id"`
	Date          time.Time `json:"date"`
	PostedBy      string    `json:"posted_by"`

	Summary    string         `json:"summary"`
	Topics     datatypes.JSON `json:"topics,omitempty"`
	Highlights datatypes.JSON `json:"highlights,omitempty"`
	Challenges datatypes.JSON `json:"challenges,omitempty"`

	OverallMood model.Mood         `json:"overall_mood"`
	Completion  int                `json:"completion"`
	Visibility  []string           `json:"visibility"`
	Status      model.UpdateStatus `json:"status"`

	Feedbacks []FeedbackDTO `json:"feedbacks"`

	// Baris ledger pasangan (batch,date), bila ada
	Attendance *attendanceDto.AttendanceDTO `json:"attendance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BatchSummaryDTO struct {
	BatchID          string         `json:"batch_id"`
	TotalUpdates     int            `json:"total_updates"`
	MoodHistogram    map[string]int `json:"mood_histogram"`
	ChallengeTypes   map[string]int `json:"challenge_types"`
	AvgCompletion    string         `json:"avg_completion"` // 2 desimal
	RecentUpdates    []DailyUpdateDTO `json:"recent_updates"`
}

// ============================
// Converter
// ============================

func ToDailyUpdateDTO(m model.DailyUpdateModel) DailyUpdateDTO {
	feedbacks := make([]FeedbackDTO, 0, len(m.DailyUpdateFeedbacks))
	for _, f := range m.DailyUpdateFeedbacks {
		feedbacks = append(feedbacks, FeedbackDTO{
			FeedbackID:  f.FeedbackID.String(),
			GivenBy:     f.FeedbackGivenBy.String(),
			Comment:     f.FeedbackComment,
			Suggestions: f.FeedbackSuggestions,
			Rating:      f.FeedbackRating,
			GivenAt:     f.FeedbackGivenAt,
		})
	}

	return DailyUpdateDTO{
		DailyUpdateID: m.DailyUpdateID.String(),
		BatchID:       m.DailyUpdateBatchID.String(),
		Date:          m.DailyUpdateDate,
		PostedBy:      m.DailyUpdatePostedBy.String(),
		Summary:       m.DailyUpdateSummary,
		Topics:        m.DailyUpdateTopics,
		Highlights:    m.DailyUpdateHighlights,
		Challenges:    m.DailyUpdateChallenges,
		OverallMood:   m.DailyUpdateOverallMood,
		Completion:    m.DailyUpdateCompletion,
		Visibility:    m.VisibilityRoles(),
		Status:        m.DailyUpdateStatus,
		Feedbacks:     feedbacks,
		CreatedAt:     m.DailyUpdateCreatedAt,
		UpdatedAt:     m.DailyUpdateUpdatedAt,
	}
}
