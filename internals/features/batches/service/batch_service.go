package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/access"
	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/batches/dto"
	"pelatihanku_backend/internals/features/batches/model"
)

const dateLayout = "2006-01-02"

type BatchService struct {
	DB *gorm.DB
}

func NewBatchService(db *gorm.DB) *BatchService {
	return &BatchService{DB: db}
}

// =======================
// ➕ Create
// =======================
func (s *BatchService) Create(p access.Principal, req dto.CreateBatchRequest) (model.BatchModel, error) {
	start, err := time.Parse(dateLayout, req.BatchStartDate)
	if err != nil {
		return model.BatchModel{}, apperr.Validation("Format tanggal mulai tidak valid")
	}
	end, err := time.Parse(dateLayout, req.BatchEndDate)
	if err != nil {
		return model.BatchModel{}, apperr.Validation("Format tanggal selesai tidak valid")
	}
	if end.Before(start) {
		return model.BatchModel{}, apperr.Validation("Tanggal selesai tidak boleh sebelum tanggal mulai")
	}

	if err := s.ensureAllLearners(req.BatchLearnerIDs); err != nil {
		return model.BatchModel{}, err
	}

	batch := model.BatchModel{
		BatchName:        strings.TrimSpace(req.BatchName),
		BatchCode:        strings.ToUpper(strings.TrimSpace(req.BatchCode)),
		BatchDescription: req.BatchDescription,
		BatchClientName:  req.BatchClientName,
		BatchStartDate:   start,
		BatchEndDate:     end,
		BatchStatus:      model.BatchStatusPlanning,
		BatchCreatedBy:   p.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		return replaceRoster(tx, batch.BatchID, req.BatchLearnerIDs)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.BatchModel{}, apperr.Duplicate("Kode batch sudah digunakan")
	}
	if err != nil {
		return model.BatchModel{}, apperr.Wrap(apperr.KindInternal, "buat batch", err)
	}

	return s.loadBatch(batch.BatchID)
}

// =======================
// ✏️ Update (owner manager atau admin)
// =======================
func (s *BatchService) Update(p access.Principal, batchID uuid.UUID, req dto.UpdateBatchRequest) (model.BatchModel, error) {
	batch, err := s.loadBatch(batchID)
	if err != nil {
		return model.BatchModel{}, err
	}

	if !access.CanManageBatch(p, batch.BatchCreatedBy) {
		return model.BatchModel{}, apperr.Forbidden("Anda tidak berhak mengelola batch ini")
	}

	if req.BatchName != nil {
		batch.BatchName = strings.TrimSpace(*req.BatchName)
	}
	if req.BatchDescription != nil {
		batch.BatchDescription = req.BatchDescription
	}
	if req.BatchClientName != nil {
		batch.BatchClientName = req.BatchClientName
	}
	if req.BatchStartDate != nil {
		start, err := time.Parse(dateLayout, *req.BatchStartDate)
		if err != nil {
			return model.BatchModel{}, apperr.Validation("Format tanggal mulai tidak valid")
		}
		batch.BatchStartDate = start
	}
	if req.BatchEndDate != nil {
		end, err := time.Parse(dateLayout, *req.BatchEndDate)
		if err != nil {
			return model.BatchModel{}, apperr.Validation("Format tanggal selesai tidak valid")
		}
		batch.BatchEndDate = end
	}
	if batch.BatchEndDate.Before(batch.BatchStartDate) {
		return model.BatchModel{}, apperr.Validation("Tanggal selesai tidak boleh sebelum tanggal mulai")
	}
	if req.BatchStatus != nil {
		if !model.IsValidBatchStatus(*req.BatchStatus) {
			return model.BatchModel{}, apperr.Validation("Status batch tidak dikenal")
		}
		batch.BatchStatus = *req.BatchStatus
	}

	if req.BatchLearnerIDs != nil {
		if err := s.ensureAllLearners(*req.BatchLearnerIDs); err != nil {
			return model.BatchModel{}, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		batch.BatchUpdatedAt = time.Now()
		if err := tx.Omit("BatchLearners").Save(&batch).Error; err != nil {
			return err
		}
		if req.BatchLearnerIDs != nil {
			return replaceRoster(tx, batch.BatchID, *req.BatchLearnerIDs)
		}
		return nil
	})
	if err != nil {
		return model.BatchModel{}, apperr.Wrap(apperr.KindInternal, "update batch", err)
	}

	return s.loadBatch(batch.BatchID)
}

// =======================
// 🔍 Get by ID (scoped)
// =======================
func (s *BatchService) GetByID(p access.Principal, batchID uuid.UUID) (model.BatchModel, error) {
	batch, err := s.loadBatch(batchID)
	if err != nil {
		return model.BatchModel{}, err
	}

	switch p.Role {
	case constants.RoleManager:
		if batch.BatchCreatedBy != p.ID {
			return model.BatchModel{}, apperr.Forbidden("Batch ini bukan milik Anda")
		}
	case constants.RoleLearner:
		if !rosterContains(batch.BatchLearners, p.ID) {
			return model.BatchModel{}, apperr.Forbidden("Anda tidak terdaftar pada batch ini")
		}
	}
	return batch, nil
}

// =======================
// 📄 List (scoped: manager own, learner enrolled)
// =======================
func (s *BatchService) List(p access.Principal, status string, limit, offset int) ([]model.BatchModel, int64, error) {
	q := s.DB.Model(&model.BatchModel{})

	switch p.Role {
	case constants.RoleManager:
		q = q.Where("batch_created_by = ?", p.ID)
	case constants.RoleLearner:
		q = q.Where("batch_id IN (?)", s.DB.
			Table("batch_learners").
			Select("batch_learner_batch_id").
			Where("batch_learner_user_id = ?", p.ID))
	}
	if status != "" {
		q = q.Where("batch_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "hitung batch", err)
	}

	var batches []model.BatchModel
	if err := q.
		Preload("BatchLearners").
		Order("batch_start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&batches).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "ambil batch", err)
	}
	return batches, total, nil
}

// =======================
// 🗑️ Delete (ditolak bila sudah ada absensi)
// =======================
func (s *BatchService) Delete(p access.Principal, batchID uuid.UUID) error {
	batch, err := s.loadBatch(batchID)
	if err != nil {
		return err
	}
	if !access.CanManageBatch(p, batch.BatchCreatedBy) {
		return apperr.Forbidden("Anda tidak berhak mengelola batch ini")
	}

	var attendanceCount int64
	if err := s.DB.Table("attendances").
		Where("attendance_batch_id = ?", batchID).
		Count(&attendanceCount).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "cek absensi batch", err)
	}
	if attendanceCount > 0 {
		return apperr.Validation("Batch tidak dapat dihapus karena sudah memiliki data absensi")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.BatchLearnerModel{}, "batch_learner_batch_id = ?", batchID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.BatchModel{}, "batch_id = ?", batchID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hapus batch", err)
	}
	return nil
}

/* =========================
   Internal helpers
========================= */

func (s *BatchService) loadBatch(batchID uuid.UUID) (model.BatchModel, error) {
	var batch model.BatchModel
	err := s.DB.Preload("BatchLearners").First(&batch, "batch_id = ?", batchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.BatchModel{}, apperr.NotFound("Batch tidak ditemukan")
	}
	if err != nil {
		return model.BatchModel{}, apperr.Wrap(apperr.KindInternal, "ambil batch", err)
	}
	return batch, nil
}

// Semua anggota roster wajib ber-role LEARNER dan terdaftar di tabel users.
func (s *BatchService) ensureAllLearners(learnerIDs []uuid.UUID) error {
	if len(learnerIDs) == 0 {
		return nil
	}
	var count int64
	if err := s.DB.Table("users").
		Where("user_id IN ? AND user_role = ?", learnerIDs, constants.RoleLearner).
		Count(&count).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "validasi learner", err)
	}
	if count != int64(len(dedupe(learnerIDs))) {
		return apperr.Validation("Semua anggota roster harus user aktif dengan role LEARNER")
	}
	return nil
}

// Tulis ulang join table: hapus yang keluar, tambah yang baru. Dipanggil di dalam transaksi.
func replaceRoster(tx *gorm.DB, batchID uuid.UUID, learnerIDs []uuid.UUID) error {
	learnerIDs = dedupe(learnerIDs)

	var existing []model.BatchLearnerModel
	if err := tx.Where("batch_learner_batch_id = ?", batchID).Find(&existing).Error; err != nil {
		return err
	}

	wanted := make(map[uuid.UUID]bool, len(learnerIDs))
	for _, id := range learnerIDs {
		wanted[id] = true
	}
	current := make(map[uuid.UUID]bool, len(existing))
	for _, row := range existing {
		current[row.BatchLearnerUserID] = true
		if !wanted[row.BatchLearnerUserID] {
			if err := tx.Delete(&model.BatchLearnerModel{}, "batch_learner_id = ?", row.BatchLearnerID).Error; err != nil {
				return err
			}
		}
	}
	for _, id := range learnerIDs {
		if current[id] {
			continue
		}
		row := model.BatchLearnerModel{BatchLearnerBatchID: batchID, BatchLearnerUserID: id}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func rosterContains(roster []model.BatchLearnerModel, userID uuid.UUID) bool {
	for _, row := range roster {
		if row.BatchLearnerUserID == userID {
			return true
		}
	}
	return false
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
