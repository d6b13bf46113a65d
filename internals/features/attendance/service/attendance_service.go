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
	"pelatihanku_backend/internals/features/attendance/dto"
	"pelatihanku_backend/internals/features/attendance/model"
	batchModel "pelatihanku_backend/internals/features/batches/model"
	duModel "pelatihanku_backend/internals/features/dailyupdates/model"
)

const dateLayout = "2006-01-02"

type AttendanceService struct {
	DB *gorm.DB
	// dapat dioverride di test untuk memajukan jam
	Now func() time.Time
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db, Now: time.Now}
}

// =======================
// ✅ Mark (buat ledger harian)
// =======================
func (s *AttendanceService) Mark(p access.Principal, req dto.MarkAttendanceRequest) (model.AttendanceModel, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return model.AttendanceModel{}, apperr.Validation("Format tanggal tidak valid")
	}
	if err := validateEntries(req.Entries); err != nil {
		return model.AttendanceModel{}, err
	}

	batch, err := s.resolveBatch(req.BatchID)
	if err != nil {
		return model.AttendanceModel{}, err
	}
	if req.ClassroomID != nil {
		if err := s.ensureClassroomExists(*req.ClassroomID); err != nil {
			return model.AttendanceModel{}, err
		}
	}
	if err := ensureEntriesOnRoster(batch, req.Entries); err != nil {
		return model.AttendanceModel{}, err
	}

	now := s.Now()
	attendance := model.AttendanceModel{
		AttendanceBatchID:      req.BatchID,
		AttendanceClassroomID:  req.ClassroomID,
		AttendanceDate:         date,
		AttendanceSessionStart: req.SessionStart,
		AttendanceSessionEnd:   req.SessionEnd,
		AttendancePerformance:  model.PerformanceAverage,
		AttendanceCreatedBy:    p.ID,
		AttendanceCreatedAt:    now,
		AttendanceUpdatedAt:    now,
	}
	if req.Digest != nil {
		if err := applyDigest(&attendance, *req.Digest); err != nil {
			return model.AttendanceModel{}, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AttendanceRecords").Create(&attendance).Error; err != nil {
			return err
		}
		for _, e := range req.Entries {
			record := model.AttendanceRecordModel{
				AttendanceRecordAttendanceID: attendance.AttendanceID,
				AttendanceRecordLearnerID:    e.LearnerID,
				AttendanceRecordStatus:       e.Status,
				AttendanceRecordRemarks:      e.Remarks,
				AttendanceRecordMarkedBy:     p.ID,
				AttendanceRecordMarkedAt:     now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		// Digest dengan summary → laporan harian ikut dibuat/diselaraskan.
		if req.Digest != nil && req.Digest.Summary != nil && strings.TrimSpace(*req.Digest.Summary) != "" {
			return upsertDailyUpdateSummary(tx, req.BatchID, date, p.ID, strings.TrimSpace(*req.Digest.Summary), now)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.AttendanceModel{}, apperr.Duplicate("Absensi untuk batch dan tanggal ini sudah ada")
	}
	if err != nil {
		return model.AttendanceModel{}, apperr.Wrap(apperr.KindInternal, "simpan absensi", err)
	}

	return s.loadAttendance(attendance.AttendanceID)
}

// =======================
// ✏️ Update (replace entri + merge digest)
// =======================
func (s *AttendanceService) Update(p access.Principal, attendanceID uuid.UUID, req dto.UpdateAttendanceRequest) (model.AttendanceModel, error) {
	attendance, err := s.loadAttendance(attendanceID)
	if err != nil {
		return model.AttendanceModel{}, err
	}

	now := s.Now()
	effLocked := attendance.EffectivelyLocked(now)
	if effLocked && !p.IsAdmin() {
		return model.AttendanceModel{}, apperr.Locked("Absensi sudah terkunci dan tidak dapat diubah")
	}
	if !access.CanMutateAttendance(p, effLocked) {
		return model.AttendanceModel{}, apperr.Forbidden("Anda tidak berhak mengubah absensi")
	}

	if req.Entries != nil {
		if err := validateEntries(req.Entries); err != nil {
			return model.AttendanceModel{}, err
		}
	}

	if req.ClassroomID != nil {
		if err := s.ensureClassroomExists(*req.ClassroomID); err != nil {
			return model.AttendanceModel{}, err
		}
		attendance.AttendanceClassroomID = req.ClassroomID
	}
	if req.SessionStart != nil {
		attendance.AttendanceSessionStart = req.SessionStart
	}
	if req.SessionEnd != nil {
		attendance.AttendanceSessionEnd = req.SessionEnd
	}

	remarksChanged := false
	if req.Digest != nil {
		before := attendance.AttendanceTrainerRemarks
		if err := applyDigest(&attendance, *req.Digest); err != nil {
			return model.AttendanceModel{}, err
		}
		after := attendance.AttendanceTrainerRemarks
		remarksChanged = after != nil && (before == nil || *before != *after)
	}

	attendance.AttendanceUpdatedBy = &p.ID
	attendance.AttendanceUpdatedAt = now
	// Lock efektif yang belum tersimpan dipersist saat jalur tulis.
	if effLocked && !attendance.AttendanceIsLocked {
		attendance.AttendanceIsLocked = true
		attendance.AttendanceLockedAt = &now
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AttendanceRecords").Save(&attendance).Error; err != nil {
			return err
		}
		if req.Entries != nil {
			// penggantian menyeluruh: hapus lalu tulis ulang dengan stempel baru
			if err := tx.Delete(&model.AttendanceRecordModel{},
				"attendance_record_attendance_id = ?", attendance.AttendanceID).Error; err != nil {
				return err
			}
			for _, e := range req.Entries {
				record := model.AttendanceRecordModel{
					AttendanceRecordAttendanceID: attendance.AttendanceID,
					AttendanceRecordLearnerID:    e.LearnerID,
					AttendanceRecordStatus:       e.Status,
					AttendanceRecordRemarks:      e.Remarks,
					AttendanceRecordMarkedBy:     p.ID,
					AttendanceRecordMarkedAt:     now,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}
		if remarksChanged {
			return syncDailyUpdateSummary(tx, attendance.AttendanceBatchID, attendance.AttendanceDate,
				*attendance.AttendanceTrainerRemarks, now)
		}
		return nil
	})
	if err != nil {
		return model.AttendanceModel{}, apperr.Wrap(apperr.KindInternal, "update absensi", err)
	}

	return s.loadAttendance(attendance.AttendanceID)
}

// =======================
// 🔒 Lock (admin)
// =======================
func (s *AttendanceService) Lock(p access.Principal, attendanceID uuid.UUID) (model.AttendanceModel, error) {
	attendance, err := s.loadAttendance(attendanceID)
	if err != nil {
		return model.AttendanceModel{}, err
	}

	now := s.Now()
	if attendance.EffectivelyLocked(now) {
		return model.AttendanceModel{}, apperr.AlreadyLocked("Absensi sudah terkunci")
	}

	attendance.AttendanceIsLocked = true
	attendance.AttendanceLockedAt = &now
	attendance.AttendanceLockedBy = &p.ID
	attendance.AttendanceUpdatedAt = now

	if err := s.DB.Omit("AttendanceRecords").Save(&attendance).Error; err != nil {
		return model.AttendanceModel{}, apperr.Wrap(apperr.KindInternal, "kunci absensi", err)
	}
	return attendance, nil
}

// =======================
// 📄 List (scoped)
// =======================
func (s *AttendanceService) List(p access.Principal, q dto.ListAttendanceQuery) ([]model.AttendanceModel, int64, error) {
	query := s.DB.Model(&model.AttendanceModel{})

	switch p.Role {
	case constants.RoleLearner:
		query = query.Where("attendance_id IN (?)", s.DB.
			Table("attendance_records").
			Select("attendance_record_attendance_id").
			Where("attendance_record_learner_id = ?", p.ID))
	case constants.RoleManager:
		query = query.Where("attendance_batch_id IN (?)", s.DB.
			Table("batches").
			Select("batch_id").
			Where("batch_created_by = ?", p.ID))
	}

	if q.BatchID != nil {
		query = query.Where("attendance_batch_id = ?", *q.BatchID)
	}
	if q.Date != nil {
		query = query.Where("attendance_date = ?", *q.Date)
	}
	if q.StartDate != nil {
		query = query.Where("attendance_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("attendance_date <= ?", *q.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "hitung absensi", err)
	}

	var rows []model.AttendanceModel
	if err := query.
		Preload("AttendanceRecords").
		Order("attendance_date DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "ambil absensi", err)
	}
	return rows, total, nil
}

// =======================
// 🔍 Get by ID (resolver)
// =======================
func (s *AttendanceService) GetByID(p access.Principal, attendanceID uuid.UUID) (model.AttendanceModel, error) {
	attendance, err := s.loadAttendance(attendanceID)
	if err != nil {
		return model.AttendanceModel{}, err
	}

	batch, err := s.resolveBatch(attendance.AttendanceBatchID)
	if err != nil {
		return model.AttendanceModel{}, err
	}

	learnerIDs := make([]uuid.UUID, 0, len(attendance.AttendanceRecords))
	for _, r := range attendance.AttendanceRecords {
		learnerIDs = append(learnerIDs, r.AttendanceRecordLearnerID)
	}
	if !access.CanAccessAttendance(p, batch.BatchCreatedBy, learnerIDs) {
		return model.AttendanceModel{}, apperr.Forbidden("Anda tidak berhak melihat absensi ini")
	}
	return attendance, nil
}

// =======================
// 📊 Laporan per learner
// =======================
func (s *AttendanceService) LearnerReport(p access.Principal, learnerID uuid.UUID, batchID *uuid.UUID, start, end *time.Time) (dto.LearnerAttendanceReport, error) {
	if p.IsLearner() && p.ID != learnerID {
		return dto.LearnerAttendanceReport{}, apperr.Forbidden("Learner hanya boleh melihat laporan miliknya sendiri")
	}

	// batch yang diikuti learner
	var batchIDs []uuid.UUID
	if err := s.DB.Table("batch_learners").
		Where("batch_learner_user_id = ?", learnerID).
		Pluck("batch_learner_batch_id", &batchIDs).Error; err != nil {
		return dto.LearnerAttendanceReport{}, apperr.Wrap(apperr.KindInternal, "ambil batch learner", err)
	}

	report := dto.LearnerAttendanceReport{
		LearnerID:            learnerID.String(),
		Rows:                 []dto.LearnerAttendanceRow{},
		AttendancePercentage: "0.00",
	}
	if len(batchIDs) == 0 {
		return report, nil
	}

	q := s.DB.Model(&model.AttendanceModel{}).
		Where("attendance_batch_id IN ?", batchIDs)
	if batchID != nil {
		// filter batch tunggal; tetap dibatasi batch yang diikuti learner
		q = q.Where("attendance_batch_id = ?", *batchID)
	}
	if start != nil {
		q = q.Where("attendance_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("attendance_date <= ?", *end)
	}

	var attendances []model.AttendanceModel
	if err := q.
		Preload("AttendanceRecords").
		Order("attendance_date ASC").
		Find(&attendances).Error; err != nil {
		return dto.LearnerAttendanceReport{}, apperr.Wrap(apperr.KindInternal, "ambil absensi learner", err)
	}

	for _, att := range attendances {
		// default ABSENT bila ledger hari itu tidak memuat entri learner
		status := model.AttendanceStatusAbsent
		var remarks *string
		for _, r := range att.AttendanceRecords {
			if r.AttendanceRecordLearnerID == learnerID {
				status = r.AttendanceRecordStatus
				remarks = r.AttendanceRecordRemarks
				break
			}
		}
		report.Rows = append(report.Rows, dto.LearnerAttendanceRow{
			Date:    att.AttendanceDate,
			BatchID: att.AttendanceBatchID.String(),
			Status:  status,
			Remarks: remarks,
		})

		report.TotalDays++
		if model.IsPresentStatus(status) {
			report.PresentDays++
		}
		switch status {
		case model.AttendanceStatusAbsent:
			report.AbsentDays++
		case model.AttendanceStatusLate:
			report.LateDays++
		case model.AttendanceStatusHalfDay:
			report.HalfDays++
		}
	}

	if report.TotalDays > 0 {
		pct := float64(report.PresentDays) / float64(report.TotalDays) * 100
		report.AttendancePercentage = fmt.Sprintf("%.2f", pct)
	}
	return report, nil
}

/* =========================
   Internal helpers
========================= */

func (s *AttendanceService) loadAttendance(id uuid.UUID) (model.AttendanceModel, error) {
	var attendance model.AttendanceModel
	err := s.DB.Preload("AttendanceRecords").First(&attendance, "attendance_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AttendanceModel{}, apperr.NotFound("Absensi tidak ditemukan")
	}
	if err != nil {
		return model.AttendanceModel{}, apperr.Wrap(apperr.KindInternal, "ambil absensi", err)
	}
	return attendance, nil
}

func (s *AttendanceService) resolveBatch(batchID uuid.UUID) (batchModel.BatchModel, error) {
	var batch batchModel.BatchModel
	err := s.DB.Preload("BatchLearners").First(&batch, "batch_id = ?", batchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return batchModel.BatchModel{}, apperr.NotFound("Batch tidak ditemukan")
	}
	if err != nil {
		return batchModel.BatchModel{}, apperr.Wrap(apperr.KindInternal, "ambil batch", err)
	}
	return batch, nil
}

func (s *AttendanceService) ensureClassroomExists(classroomID uuid.UUID) error {
	var count int64
	if err := s.DB.Table("classrooms").
		Where("classroom_id = ?", classroomID).
		Count(&count).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "cek ruang kelas", err)
	}
	if count == 0 {
		return apperr.NotFound("Ruang kelas tidak ditemukan")
	}
	return nil
}

// Status entri harus dikenal dan satu learner maksimal satu entri.
func validateEntries(entries []dto.AttendanceEntryRequest) error {
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if !model.IsValidAttendanceStatus(e.Status) {
			return apperr.Validation("Status kehadiran tidak dikenal: " + string(e.Status))
		}
		if seen[e.LearnerID] {
			return apperr.Validation("Learner " + e.LearnerID.String() + " tercantum lebih dari satu kali")
		}
		seen[e.LearnerID] = true
	}
	return nil
}

// Semua entri harus anggota roster batch.
func ensureEntriesOnRoster(batch batchModel.BatchModel, entries []dto.AttendanceEntryRequest) error {
	roster := make(map[uuid.UUID]bool, len(batch.BatchLearners))
	for _, bl := range batch.BatchLearners {
		roster[bl.BatchLearnerUserID] = true
	}
	for _, e := range entries {
		if !roster[e.LearnerID] {
			return apperr.Validation("Learner " + e.LearnerID.String() + " tidak terdaftar pada batch ini")
		}
	}
	return nil
}

// applyDigest: merge — hanya field non-nil yang menimpa.
func applyDigest(attendance *model.AttendanceModel, digest dto.AttendanceDigestRequest) error {
	if digest.CoveredTopics != nil {
		raw, err := sonic.Marshal(digest.CoveredTopics)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode topik", err)
		}
		attendance.AttendanceCoveredTopics = datatypes.JSON(raw)
	}
	if digest.Assignments != nil {
		raw, err := sonic.Marshal(digest.Assignments)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode tugas", err)
		}
		attendance.AttendanceAssignments = datatypes.JSON(raw)
	}
	if digest.TrainerRemarks != nil {
		attendance.AttendanceTrainerRemarks = digest.TrainerRemarks
	} else if digest.Summary != nil && strings.TrimSpace(*digest.Summary) != "" {
		summary := strings.TrimSpace(*digest.Summary)
		attendance.AttendanceTrainerRemarks = &summary
	}
	if digest.Performance != nil {
		if !model.IsValidPerformance(*digest.Performance) {
			return apperr.Validation("Nilai performance tidak dikenal")
		}
		attendance.AttendancePerformance = *digest.Performance
	}
	if digest.Issues != nil {
		attendance.AttendanceIssues = digest.Issues
	}
	return nil
}

// upsertDailyUpdateSummary membuat laporan harian pasangan ledger, atau
// menyelaraskan summary bila laporannya sudah lebih dulu ada.
func upsertDailyUpdateSummary(tx *gorm.DB, batchID uuid.UUID, date time.Time, postedBy uuid.UUID, summary string, now time.Time) error {
	var existing duModel.DailyUpdateModel
	err := tx.Where("daily_update_batch_id = ? AND daily_update_date = ?", batchID, date).
		First(&existing).Error
	if err == nil {
		return tx.Model(&existing).Updates(map[string]interface{}{
			"daily_update_summary":    summary,
			"daily_update_updated_at": now,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	update := duModel.DailyUpdateModel{
		DailyUpdateBatchID:     batchID,
		DailyUpdateDate:        date,
		DailyUpdatePostedBy:    postedBy,
		DailyUpdateSummary:     summary,
		DailyUpdateOverallMood: duModel.MoodNeutral,
		DailyUpdateVisibility:  duModel.DefaultVisibility(),
		DailyUpdateStatus:      duModel.UpdateStatusPublished,
		DailyUpdateCreatedAt:   now,
		DailyUpdateUpdatedAt:   now,
	}
	return tx.Omit("DailyUpdateFeedbacks").Create(&update).Error
}

// syncDailyUpdateSummary: perubahan trainer remarks diteruskan ke laporan
// harian pasangannya (bila ada) dalam transaksi yang sama.
func syncDailyUpdateSummary(tx *gorm.DB, batchID uuid.UUID, date time.Time, summary string, now time.Time) error {
	res := tx.Model(&duModel.DailyUpdateModel{}).
		Where("daily_update_batch_id = ? AND daily_update_date = ?", batchID, date).
		Updates(map[string]interface{}{
			"daily_update_summary":    summary,
			"daily_update_updated_at": now,
		})
	return res.Error
}
