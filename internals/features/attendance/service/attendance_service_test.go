package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pelatihanku_backend/internals/access"
	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/constants"
	"pelatihanku_backend/internals/features/attendance/dto"
	"pelatihanku_backend/internals/features/attendance/model"
	batchModel "pelatihanku_backend/internals/features/batches/model"
	classroomModel "pelatihanku_backend/internals/features/classrooms/model"
	duModel "pelatihanku_backend/internals/features/dailyupdates/model"
	userModel "pelatihanku_backend/internals/features/users/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&classroomModel.ClassroomModel{},
		&batchModel.BatchModel{},
		&batchModel.BatchLearnerModel{},
		&model.AttendanceModel{},
		&model.AttendanceRecordModel{},
		&duModel.DailyUpdateModel{},
		&duModel.DailyUpdateFeedbackModel{},
	))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB, createdBy uuid.UUID, learnerIDs ...uuid.UUID) batchModel.BatchModel {
	t.Helper()
	batch := batchModel.BatchModel{
		BatchName:      "Golang Bootcamp",
		BatchCode:      "GO-" + uuid.NewString()[:8],
		BatchStartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		BatchEndDate:   time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC),
		BatchStatus:    batchModel.BatchStatusOngoing,
		BatchCreatedBy: createdBy,
	}
	require.NoError(t, db.Omit("BatchLearners").Create(&batch).Error)
	for _, id := range learnerIDs {
		require.NoError(t, db.Create(&batchModel.BatchLearnerModel{
			BatchLearnerBatchID: batch.BatchID,
			BatchLearnerUserID:  id,
		}).Error)
	}
	return batch
}

func trainerPrincipal() access.Principal {
	return access.Principal{ID: uuid.New(), Role: constants.RoleTrainer}
}

func adminPrincipal() access.Principal {
	return access.Principal{ID: uuid.New(), Role: constants.RoleAdmin}
}

func TestMark_CreatesLedgerWithStamps(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1, l2, l3)

	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{
			{LearnerID: l1, Status: model.AttendanceStatusPresent},
			{LearnerID: l2, Status: model.AttendanceStatusLate},
			{LearnerID: l3, Status: model.AttendanceStatusAbsent},
		},
	})
	require.NoError(t, err)
	require.Len(t, attendance.AttendanceRecords, 3)

	for _, r := range attendance.AttendanceRecords {
		assert.Equal(t, trainer.ID, r.AttendanceRecordMarkedBy)
		assert.False(t, r.AttendanceRecordMarkedAt.IsZero())
	}
	// LATE ikut himpunan hadir
	assert.Equal(t, 2, attendance.PresentCount())
	assert.Equal(t, 1, attendance.AbsentCount())
	assert.Equal(t, 67, attendance.AttendancePercentage())
	assert.Equal(t, trainer.ID, attendance.AttendanceCreatedBy)
}

func TestMark_DuplicateBatchDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	req := dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	}
	_, err := svc.Mark(trainer, req)
	require.NoError(t, err)

	_, err = svc.Mark(trainer, req)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestMark_UnknownBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)

	_, err := svc.Mark(trainerPrincipal(), dto.MarkAttendanceRequest{
		BatchID: uuid.New(),
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: uuid.New(), Status: model.AttendanceStatusPresent}},
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMark_EntryOutsideRoster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	batch := seedBatch(t, db, uuid.New(), uuid.New())

	_, err := svc.Mark(trainerPrincipal(), dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: uuid.New(), Status: model.AttendanceStatusPresent}},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMark_DigestSummaryCreatesDailyUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	summary := "Hari pertama: pengenalan goroutine"
	_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
		Digest:  &dto.AttendanceDigestRequest{Summary: &summary},
	})
	require.NoError(t, err)

	var update duModel.DailyUpdateModel
	require.NoError(t, db.First(&update, "daily_update_batch_id = ?", batch.BatchID).Error)
	assert.Equal(t, summary, update.DailyUpdateSummary)
	assert.Equal(t, trainer.ID, update.DailyUpdatePostedBy)
	assert.Equal(t, duModel.UpdateStatusPublished, update.DailyUpdateStatus)
}

func TestUpdate_AutoLockAfter24Hours(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	// majukan jam melewati ambang auto-lock
	svc.Now = func() time.Time { return attendance.AttendanceCreatedAt.Add(24*time.Hour + time.Minute) }

	entries := []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusAbsent}}
	_, err = svc.Update(trainer, attendance.AttendanceID, dto.UpdateAttendanceRequest{Entries: entries})
	assert.Equal(t, apperr.KindLocked, apperr.KindOf(err))

	// admin tetap boleh menimpa
	updated, err := svc.Update(adminPrincipal(), attendance.AttendanceID, dto.UpdateAttendanceRequest{Entries: entries})
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusAbsent, updated.AttendanceRecords[0].AttendanceRecordStatus)
	// flag lock efektif dipersist di jalur tulis
	assert.True(t, updated.AttendanceIsLocked)
}

func TestUpdate_Before24HoursStillOpen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	svc.Now = func() time.Time { return attendance.AttendanceCreatedAt.Add(23 * time.Hour) }

	updated, err := svc.Update(trainer, attendance.AttendanceID, dto.UpdateAttendanceRequest{
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusLate}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusLate, updated.AttendanceRecords[0].AttendanceRecordStatus)
	assert.False(t, updated.AttendanceIsLocked)
}

func TestUpdate_TrainerRemarksSyncToDailyUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	summary := "Ringkasan awal"
	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
		Digest:  &dto.AttendanceDigestRequest{Summary: &summary},
	})
	require.NoError(t, err)

	remarks := "Ringkasan direvisi setelah sesi sore"
	_, err = svc.Update(trainer, attendance.AttendanceID, dto.UpdateAttendanceRequest{
		Digest: &dto.AttendanceDigestRequest{TrainerRemarks: &remarks},
	})
	require.NoError(t, err)

	var update duModel.DailyUpdateModel
	require.NoError(t, db.First(&update, "daily_update_batch_id = ?", batch.BatchID).Error)
	assert.Equal(t, remarks, update.DailyUpdateSummary)
}

func TestLock_ThenAlreadyLocked(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	admin := adminPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	attendance, err := svc.Mark(trainerPrincipal(), dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	locked, err := svc.Lock(admin, attendance.AttendanceID)
	require.NoError(t, err)
	assert.True(t, locked.AttendanceIsLocked)
	require.NotNil(t, locked.AttendanceLockedBy)
	assert.Equal(t, admin.ID, *locked.AttendanceLockedBy)

	_, err = svc.Lock(admin, attendance.AttendanceID)
	assert.Equal(t, apperr.KindAlreadyLocked, apperr.KindOf(err))
}

func TestLock_EffectiveLockCountsAsAlreadyLocked(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	attendance, err := svc.Mark(trainerPrincipal(), dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	svc.Now = func() time.Time { return attendance.AttendanceCreatedAt.Add(25 * time.Hour) }
	_, err = svc.Lock(adminPrincipal(), attendance.AttendanceID)
	assert.Equal(t, apperr.KindAlreadyLocked, apperr.KindOf(err))
}

func TestList_LearnerOnlySeesOwnRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1, l2 := uuid.New(), uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1, l2)

	_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)
	_, err = svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-06",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l2, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	rows, total, err := svc.List(access.Principal{ID: l1, Role: constants.RoleLearner},
		dto.ListAttendanceQuery{Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, l1, rows[0].AttendanceRecords[0].AttendanceRecordLearnerID)
}

func TestList_ManagerScopedToOwnBatches(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	manager := access.Principal{ID: uuid.New(), Role: constants.RoleManager}

	l1, l2 := uuid.New(), uuid.New()
	ownBatch := seedBatch(t, db, manager.ID, l1)
	otherBatch := seedBatch(t, db, uuid.New(), l2)

	for _, tc := range []struct {
		batch   batchModel.BatchModel
		learner uuid.UUID
	}{{ownBatch, l1}, {otherBatch, l2}} {
		_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
			BatchID: tc.batch.BatchID,
			Date:    "2026-01-05",
			Entries: []dto.AttendanceEntryRequest{{LearnerID: tc.learner, Status: model.AttendanceStatusPresent}},
		})
		require.NoError(t, err)
	}

	rows, total, err := svc.List(manager, dto.ListAttendanceQuery{Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, ownBatch.BatchID, rows[0].AttendanceBatchID)
}

func TestLearnerReport_SelfOnlyAndDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1, l2 := uuid.New(), uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1, l2)

	// 3 hari: hadir, terlambat, dan satu hari tanpa entri untuk l1
	dates := []struct {
		date    string
		entries []dto.AttendanceEntryRequest
	}{
		{"2026-01-05", []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}, {LearnerID: l2, Status: model.AttendanceStatusPresent}}},
		{"2026-01-06", []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusLate}, {LearnerID: l2, Status: model.AttendanceStatusPresent}}},
		{"2026-01-07", []dto.AttendanceEntryRequest{{LearnerID: l2, Status: model.AttendanceStatusPresent}}},
	}
	for _, d := range dates {
		_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
			BatchID: batch.BatchID,
			Date:    d.date,
			Entries: d.entries,
		})
		require.NoError(t, err)
	}

	// learner lain dilarang
	_, err := svc.LearnerReport(access.Principal{ID: l2, Role: constants.RoleLearner}, l1, nil, nil, nil)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	report, err := svc.LearnerReport(access.Principal{ID: l1, Role: constants.RoleLearner}, l1, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalDays)
	assert.Equal(t, 2, report.PresentDays) // LATE dihitung hadir
	assert.Equal(t, 1, report.AbsentDays)  // hari tanpa entri = ABSENT
	assert.Equal(t, 1, report.LateDays)
	assert.Equal(t, "66.67", report.AttendancePercentage)

	// baris hari ketiga berstatus default ABSENT
	assert.Equal(t, model.AttendanceStatusAbsent, report.Rows[2].Status)
}

func TestLearnerReport_EmptyIsZeroZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	learner := uuid.New()

	report, err := svc.LearnerReport(access.Principal{ID: learner, Role: constants.RoleLearner}, learner, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalDays)
	assert.Equal(t, "0.00", report.AttendancePercentage)
}

func TestLearnerReport_BatchFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	learner := uuid.New()
	batchA := seedBatch(t, db, uuid.New(), learner)
	batchB := seedBatch(t, db, uuid.New(), learner)

	// batch A: hadir; batch B: absen
	_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batchA.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: learner, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)
	_, err = svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batchB.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: learner, Status: model.AttendanceStatusAbsent}},
	})
	require.NoError(t, err)

	self := access.Principal{ID: learner, Role: constants.RoleLearner}

	// tanpa filter dua batch ikut dihitung
	report, err := svc.LearnerReport(self, learner, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalDays)
	assert.Equal(t, "50.00", report.AttendancePercentage)

	// filter batch A saja
	report, err = svc.LearnerReport(self, learner, &batchA.BatchID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalDays)
	assert.Equal(t, 1, report.PresentDays)
	assert.Equal(t, "100.00", report.AttendancePercentage)

	// batch yang tidak diikuti learner menghasilkan laporan kosong
	stranger := seedBatch(t, db, uuid.New())
	report, err = svc.LearnerReport(self, learner, &stranger.BatchID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalDays)
}

func TestMark_DuplicateLearnerEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	_, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{
			{LearnerID: l1, Status: model.AttendanceStatusPresent},
			{LearnerID: l1, Status: model.AttendanceStatusAbsent},
		},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdate_DuplicateLearnerEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1 := uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1)

	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	_, err = svc.Update(trainer, attendance.AttendanceID, dto.UpdateAttendanceRequest{
		Entries: []dto.AttendanceEntryRequest{
			{LearnerID: l1, Status: model.AttendanceStatusPresent},
			{LearnerID: l1, Status: model.AttendanceStatusLate},
		},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetByID_LearnerAccessViaEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	trainer := trainerPrincipal()
	l1, l2 := uuid.New(), uuid.New()
	batch := seedBatch(t, db, uuid.New(), l1, l2)

	attendance, err := svc.Mark(trainer, dto.MarkAttendanceRequest{
		BatchID: batch.BatchID,
		Date:    "2026-01-05",
		Entries: []dto.AttendanceEntryRequest{{LearnerID: l1, Status: model.AttendanceStatusPresent}},
	})
	require.NoError(t, err)

	_, err = svc.GetByID(access.Principal{ID: l1, Role: constants.RoleLearner}, attendance.AttendanceID)
	assert.NoError(t, err)

	_, err = svc.GetByID(access.Principal{ID: l2, Role: constants.RoleLearner}, attendance.AttendanceID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
