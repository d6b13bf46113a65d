package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/access"
	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/constants"
	attendanceModel "pelatihanku_backend/internals/features/attendance/model"
	"pelatihanku_backend/internals/features/dailyupdates/dto"
	"pelatihanku_backend/internals/features/dailyupdates/model"
)

const dateLayout = "2006-01-02"

type DailyUpdateService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDailyUpdateService(db *gorm.DB) *DailyUpdateService {
	return &DailyUpdateService{DB: db, Now: time.Now}
}

// =======================
// ➕ Create
// =======================
func (s *DailyUpdateService) Create(p access.Principal, req dto.CreateDailyUpdateRequest) (model.DailyUpdateModel, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return model.DailyUpdateModel{}, apperr.Validation("Format tanggal tidak valid")
	}
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return model.DailyUpdateModel{}, apperr.Validation("Summary wajib diisi")
	}

	if err := s.ensureBatchExists(req.BatchID); err != nil {
		return model.DailyUpdateModel{}, err
	}

	now := s.Now()
	update := model.DailyUpdateModel{
		DailyUpdateBatchID:     req.BatchID,
		DailyUpdateDate:        date,
		DailyUpdatePostedBy:    p.ID,
		DailyUpdateSummary:     summary,
		DailyUpdateOverallMood: model.MoodNeutral,
		DailyUpdateVisibility:  model.DefaultVisibility(),
		DailyUpdateStatus:      model.UpdateStatusPublished,
		DailyUpdateCreatedAt:   now,
		DailyUpdateUpdatedAt:   now,
	}
	if err := s.applyFields(&update, req.Topics, req.Highlights, req.Challenges,
		req.Mood, req.Completion, req.Visibility, req.Status); err != nil {
		return model.DailyUpdateModel{}, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("DailyUpdateFeedbacks").Create(&update).Error; err != nil {
			return err
		}
		// Dorong digest ke ledger pasangan bila sudah ada; laporan tetap
		// sah tanpa ledger (urutan pembuatan bebas).
		return pushDigestToAttendance(tx, &update, now)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.DailyUpdateModel{}, apperr.Duplicate("Laporan harian untuk batch dan tanggal ini sudah ada")
	}
	if err != nil {
		return model.DailyUpdateModel{}, apperr.Wrap(apperr.KindInternal, "simpan laporan harian", err)
	}

	return s.loadUpdate(update.DailyUpdateID)
}

// =======================
// ✏️ Update (poster atau admin)
// =======================
func (s *DailyUpdateService) Update(p access.Principal, updateID uuid.UUID, req dto.UpdateDailyUpdateRequest) (model.DailyUpdateModel, error) {
	update, err := s.loadUpdate(updateID)
	if err != nil {
		return model.DailyUpdateModel{}, err
	}

	if update.DailyUpdatePostedBy != p.ID && !p.IsAdmin() {
		return model.DailyUpdateModel{}, apperr.Forbidden("Hanya pembuat laporan atau admin yang boleh mengubahnya")
	}

	summaryChanged := false
	if req.Summary != nil {
		summary := strings.TrimSpace(*req.Summary)
		if summary == "" {
			return model.DailyUpdateModel{}, apperr.Validation("Summary tidak boleh kosong")
		}
		summaryChanged = summary != update.DailyUpdateSummary
		update.DailyUpdateSummary = summary
	}
	if err := s.applyFields(&update, req.Topics, req.Highlights, req.Challenges,
		req.Mood, req.Completion, req.Visibility, req.Status); err != nil {
		return model.DailyUpdateModel{}, err
	}

	now := s.Now()
	update.DailyUpdateUpdatedAt = now

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("DailyUpdateFeedbacks").Save(&update).Error; err != nil {
			return err
		}
		if summaryChanged {
			return propagateSummary(tx, update, now)
		}
		return nil
	})
	if err != nil {
		return model.DailyUpdateModel{}, apperr.Wrap(apperr.KindInternal, "update laporan harian", err)
	}

	return s.loadUpdate(update.DailyUpdateID)
}

// =======================
// 💬 Add Feedback (manager/team leader dalam visibility)
// =======================
func (s *DailyUpdateService) AddFeedback(p access.Principal, updateID uuid.UUID, req dto.AddFeedbackRequest) (model.DailyUpdateFeedbackModel, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return model.DailyUpdateFeedbackModel{}, apperr.Validation("Komentar feedback wajib diisi")
	}

	update, err := s.loadUpdate(updateID)
	if err != nil {
		return model.DailyUpdateFeedbackModel{}, err
	}

	if !access.CanGiveFeedback(p, update.VisibilityRoles()) {
		return model.DailyUpdateFeedbackModel{}, apperr.Forbidden("Anda tidak berhak memberi feedback pada laporan ini")
	}

	rating := 5
	if req.Rating != nil {
		rating = *req.Rating
	}

	feedback := model.DailyUpdateFeedbackModel{
		FeedbackDailyUpdateID: update.DailyUpdateID,
		FeedbackGivenBy:       p.ID,
		FeedbackComment:       comment,
		FeedbackRating:        rating,
		FeedbackGivenAt:       s.Now(),
	}
	if len(req.Suggestions) > 0 {
		raw, err := sonic.Marshal(req.Suggestions)
		if err != nil {
			return model.DailyUpdateFeedbackModel{}, apperr.Wrap(apperr.KindInternal, "encode saran", err)
		}
		feedback.FeedbackSuggestions = datatypes.JSON(raw)
	}

	if err := s.DB.Create(&feedback).Error; err != nil {
		return model.DailyUpdateFeedbackModel{}, apperr.Wrap(apperr.KindInternal, "simpan feedback", err)
	}
	return feedback, nil
}

// =======================
// 📄 List (PUBLISHED, scoped per role)
// =======================
func (s *DailyUpdateService) List(p access.Principal, q dto.ListDailyUpdateQuery) ([]model.DailyUpdateModel, int64, error) {
	query := s.DB.Model(&model.DailyUpdateModel{}).
		Where("daily_update_status = ?", model.UpdateStatusPublished)

	switch p.Role {
	case constants.RoleManager:
		query = query.Where("daily_update_batch_id IN (?)", s.DB.
			Table("batches").
			Select("batch_id").
			Where("batch_created_by = ?", p.ID))
	case constants.RoleLearner:
		// learner: batch yang diikuti; visibility sengaja tidak difilter
		query = query.Where("daily_update_batch_id IN (?)", s.DB.
			Table("batch_learners").
			Select("batch_learner_batch_id").
			Where("batch_learner_user_id = ?", p.ID))
	}

	if q.BatchID != nil {
		query = query.Where("daily_update_batch_id = ?", *q.BatchID)
	}
	if q.StartDate != nil {
		query = query.Where("daily_update_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("daily_update_date <= ?", *q.EndDate)
	}

	var rows []model.DailyUpdateModel
	if err := query.
		Preload("DailyUpdateFeedbacks").
		Order("daily_update_date DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "ambil laporan harian", err)
	}

	// filter visibility untuk reviewer dilakukan di memori (kolom JSON)
	if p.Role == constants.RoleManager || p.Role == constants.RoleTeamLeader {
		filtered := rows[:0]
		for _, row := range rows {
			if containsRole(row.VisibilityRoles(), p.Role) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	total := int64(len(rows))
	if q.Offset >= len(rows) {
		return []model.DailyUpdateModel{}, total, nil
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[q.Offset:end], total, nil
}

// =======================
// 🔍 Get by ID (resolver) + ledger pasangan
// =======================
func (s *DailyUpdateService) GetByID(p access.Principal, updateID uuid.UUID) (model.DailyUpdateModel, *attendanceModel.AttendanceModel, error) {
	update, err := s.loadUpdate(updateID)
	if err != nil {
		return model.DailyUpdateModel{}, nil, err
	}

	if !access.CanAccessDailyUpdate(p, update.DailyUpdatePostedBy, update.VisibilityRoles()) {
		return model.DailyUpdateModel{}, nil, apperr.Forbidden("Anda tidak berhak melihat laporan ini")
	}

	var attendance attendanceModel.AttendanceModel
	err = s.DB.Preload("AttendanceRecords").
		Where("attendance_batch_id = ? AND attendance_date = ?", update.DailyUpdateBatchID, update.DailyUpdateDate).
		First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return update, nil, nil
	}
	if err != nil {
		return model.DailyUpdateModel{}, nil, apperr.Wrap(apperr.KindInternal, "ambil ledger pasangan", err)
	}
	return update, &attendance, nil
}

// =======================
// 📊 Summarize per batch
// =======================
func (s *DailyUpdateService) Summarize(batchID uuid.UUID, start, end *time.Time) (dto.BatchSummaryDTO, error) {
	if err := s.ensureBatchExists(batchID); err != nil {
		return dto.BatchSummaryDTO{}, err
	}

	q := s.DB.Model(&model.DailyUpdateModel{}).
		Where("daily_update_batch_id = ?", batchID).
		Where("daily_update_status = ?", model.UpdateStatusPublished)
	if start != nil {
		q = q.Where("daily_update_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("daily_update_date <= ?", *end)
	}

	var rows []model.DailyUpdateModel
	if err := q.Order("daily_update_date DESC").Find(&rows).Error; err != nil {
		return dto.BatchSummaryDTO{}, apperr.Wrap(apperr.KindInternal, "ambil laporan batch", err)
	}

	summary := dto.BatchSummaryDTO{
		BatchID:        batchID.String(),
		TotalUpdates:   len(rows),
		MoodHistogram:  map[string]int{},
		ChallengeTypes: map[string]int{},
		AvgCompletion:  "0.00",
		RecentUpdates:  []dto.DailyUpdateDTO{},
	}
	for _, mood := range model.AllMoods {
		summary.MoodHistogram[string(mood)] = 0
	}
	for _, ct := range model.AllChallengeTypes {
		summary.ChallengeTypes[string(ct)] = 0
	}

	totalCompletion := 0
	for i, row := range rows {
		summary.MoodHistogram[string(row.DailyUpdateOverallMood)]++
		totalCompletion += row.DailyUpdateCompletion

		var challenges []model.Challenge
		if len(row.DailyUpdateChallenges) > 0 {
			if err := sonic.Unmarshal(row.DailyUpdateChallenges, &challenges); err == nil {
				for _, ch := range challenges {
					summary.ChallengeTypes[string(ch.Type)]++
				}
			}
		}
		if i < 5 {
			summary.RecentUpdates = append(summary.RecentUpdates, dto.ToDailyUpdateDTO(row))
		}
	}
	if len(rows) > 0 {
		summary.AvgCompletion = fmt.Sprintf("%.2f", float64(totalCompletion)/float64(len(rows)))
	}
	return summary, nil
}

/* =========================
   Internal helpers
========================= */

func (s *DailyUpdateService) loadUpdate(id uuid.UUID) (model.DailyUpdateModel, error) {
	var update model.DailyUpdateModel
	err := s.DB.Preload("DailyUpdateFeedbacks").First(&update, "daily_update_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DailyUpdateModel{}, apperr.NotFound("Laporan harian tidak ditemukan")
	}
	if err != nil {
		return model.DailyUpdateModel{}, apperr.Wrap(apperr.KindInternal, "ambil laporan harian", err)
	}
	return update, nil
}

func (s *DailyUpdateService) ensureBatchExists(batchID uuid.UUID) error {
	var count int64
	if err := s.DB.Table("batches").Where("batch_id = ?", batchID).Count(&count).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "cek batch", err)
	}
	if count == 0 {
		return apperr.NotFound("Batch tidak ditemukan")
	}
	return nil
}

// applyFields menimpa field opsional yang dikirim klien.
func (s *DailyUpdateService) applyFields(update *model.DailyUpdateModel, topics []string,
	highlights []model.Highlight, challenges []model.Challenge, mood *model.Mood,
	completion *int, visibility []string, status *model.UpdateStatus) error {

	if topics != nil {
		raw, err := sonic.Marshal(topics)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode topik", err)
		}
		update.DailyUpdateTopics = datatypes.JSON(raw)
	}
	if highlights != nil {
		raw, err := sonic.Marshal(highlights)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode highlight", err)
		}
		update.DailyUpdateHighlights = datatypes.JSON(raw)
	}
	if challenges != nil {
		for _, ch := range challenges {
			if strings.TrimSpace(ch.Description) == "" {
				return apperr.Validation("Deskripsi challenge wajib diisi")
			}
		}
		raw, err := sonic.Marshal(challenges)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode challenge", err)
		}
		update.DailyUpdateChallenges = datatypes.JSON(raw)
	}
	if mood != nil {
		if !model.IsValidMood(*mood) {
			return apperr.Validation("Mood tidak dikenal")
		}
		update.DailyUpdateOverallMood = *mood
	}
	if completion != nil {
		if *completion < 0 || *completion > 100 {
			return apperr.Validation("Completion harus 0-100")
		}
		update.DailyUpdateCompletion = *completion
	}
	if visibility != nil {
		encoded, ok := model.EncodeVisibility(visibility)
		if !ok {
			return apperr.Validation("Visibility hanya boleh MANAGER, TEAM_LEADER, TRAINER, atau TA")
		}
		update.DailyUpdateVisibility = encoded
	}
	if status != nil {
		if !model.IsValidUpdateStatus(*status) {
			return apperr.Validation("Status laporan tidak dikenal")
		}
		update.DailyUpdateStatus = *status
	}
	return nil
}

// pushDigestToAttendance menyalin ringkasan laporan ke baris ledger (batch,date):
// summary→trainer remarks, topics→covered topics, mood→performance,
// deskripsi challenge→issues. No-op bila ledger belum ada.
func pushDigestToAttendance(tx *gorm.DB, update *model.DailyUpdateModel, now time.Time) error {
	var attendance attendanceModel.AttendanceModel
	err := tx.Where("attendance_batch_id = ? AND attendance_date = ?",
		update.DailyUpdateBatchID, update.DailyUpdateDate).
		First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"attendance_trainer_remarks": update.DailyUpdateSummary,
		"attendance_performance":     model.MoodToPerformance(update.DailyUpdateOverallMood),
		"attendance_updated_at":      now,
	}

	if len(update.DailyUpdateTopics) > 0 {
		var topics []string
		if err := sonic.Unmarshal(update.DailyUpdateTopics, &topics); err == nil && len(topics) > 0 {
			covered := make([]attendanceModel.CoveredTopic, 0, len(topics))
			for _, t := range topics {
				covered = append(covered, attendanceModel.CoveredTopic{Topic: t})
			}
			if raw, err := sonic.Marshal(covered); err == nil {
				updates["attendance_covered_topics"] = datatypes.JSON(raw)
			}
		}
	}

	if len(update.DailyUpdateChallenges) > 0 {
		var challenges []model.Challenge
		if err := sonic.Unmarshal(update.DailyUpdateChallenges, &challenges); err == nil && len(challenges) > 0 {
			descs := make([]string, 0, len(challenges))
			for _, ch := range challenges {
				descs = append(descs, ch.Description)
			}
			updates["attendance_issues"] = strings.Join(descs, "; ")
		}
	}

	return tx.Model(&attendance).Updates(updates).Error
}

// propagateSummary meneruskan perubahan summary ke trainer remarks ledger.
func propagateSummary(tx *gorm.DB, update model.DailyUpdateModel, now time.Time) error {
	return tx.Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_batch_id = ? AND attendance_date = ?",
			update.DailyUpdateBatchID, update.DailyUpdateDate).
		Updates(map[string]interface{}{
			"attendance_trainer_remarks": update.DailyUpdateSummary,
			"attendance_updated_at":      now,
		}).Error
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
