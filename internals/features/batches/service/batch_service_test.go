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
	attendanceModel "pelatihanku_backend/internals/features/attendance/model"
	"pelatihanku_backend/internals/features/batches/dto"
	"pelatihanku_backend/internals/features/batches/model"
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
		&model.BatchModel{},
		&model.BatchLearnerModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceRecordModel{},
	))
	return db
}

func seedLearner(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := userModel.UserModel{
		UserName:     "Learner " + uuid.NewString()[:8],
		UserUsername: "learner_" + uuid.NewString()[:8],
		UserEmail:    uuid.NewString()[:8] + "@pelatihanku.id",
		UserPassword: "hashed",
		UserRole:     constants.RoleLearner,
		UserIsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.UserID
}

func managerPrincipal() access.Principal {
	return access.Principal{ID: uuid.New(), Role: constants.RoleManager}
}

func createReq(code string, learnerIDs ...uuid.UUID) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		BatchName:       "Fullstack Bootcamp",
		BatchCode:       code,
		BatchStartDate:  "2026-01-05",
		BatchEndDate:    "2026-03-27",
		BatchLearnerIDs: learnerIDs,
	}
}

func TestCreate_WithRoster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()
	l1 := seedLearner(t, db)
	l2 := seedLearner(t, db)

	batch, err := svc.Create(manager, createReq("fs-01", l1, l2))
	require.NoError(t, err)

	assert.Equal(t, "FS-01", batch.BatchCode) // kode dinormalisasi uppercase
	assert.Equal(t, model.BatchStatusPlanning, batch.BatchStatus)
	assert.Equal(t, manager.ID, batch.BatchCreatedBy)
	assert.Len(t, batch.BatchLearners, 2)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	req := createReq("FS-02")
	req.BatchStartDate = "2026-03-27"
	req.BatchEndDate = "2026-01-05"
	_, err := svc.Create(managerPrincipal(), req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreate_DuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()

	_, err := svc.Create(manager, createReq("FS-03"))
	require.NoError(t, err)

	_, err = svc.Create(manager, createReq("fs-03"))
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestCreate_RosterRejectsNonLearner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	trainer := userModel.UserModel{
		UserName:     "Trainer",
		UserUsername: "trainer_x",
		UserEmail:    "trainer@pelatihanku.id",
		UserPassword: "hashed",
		UserRole:     constants.RoleTrainer,
	}
	require.NoError(t, db.Create(&trainer).Error)

	_, err := svc.Create(managerPrincipal(), createReq("FS-04", trainer.UserID))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreate_RosterRejectsUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	_, err := svc.Create(managerPrincipal(), createReq("FS-05", uuid.New()))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdate_ReplacesRoster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()
	l1 := seedLearner(t, db)
	l2 := seedLearner(t, db)
	l3 := seedLearner(t, db)

	batch, err := svc.Create(manager, createReq("FS-06", l1, l2))
	require.NoError(t, err)

	roster := []uuid.UUID{l2, l3}
	updated, err := svc.Update(manager, batch.BatchID, dto.UpdateBatchRequest{BatchLearnerIDs: &roster})
	require.NoError(t, err)

	got := make([]uuid.UUID, 0, len(updated.BatchLearners))
	for _, bl := range updated.BatchLearners {
		got = append(got, bl.BatchLearnerUserID)
	}
	assert.ElementsMatch(t, []uuid.UUID{l2, l3}, got)
}

func TestUpdate_NilRosterLeavesItUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()
	l1 := seedLearner(t, db)

	batch, err := svc.Create(manager, createReq("FS-07", l1))
	require.NoError(t, err)

	name := "Fullstack Bootcamp Gelombang 2"
	updated, err := svc.Update(manager, batch.BatchID, dto.UpdateBatchRequest{BatchName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.BatchName)
	assert.Len(t, updated.BatchLearners, 1)
}

func TestUpdate_OnlyOwnerOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	owner := managerPrincipal()

	batch, err := svc.Create(owner, createReq("FS-08"))
	require.NoError(t, err)

	name := "Direbut"
	_, err = svc.Update(managerPrincipal(), batch.BatchID, dto.UpdateBatchRequest{BatchName: &name})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	admin := access.Principal{ID: uuid.New(), Role: constants.RoleAdmin}
	_, err = svc.Update(admin, batch.BatchID, dto.UpdateBatchRequest{BatchName: &name})
	assert.NoError(t, err)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()

	batch, err := svc.Create(manager, createReq("FS-09"))
	require.NoError(t, err)

	bogus := model.BatchStatus("PAUSED")
	_, err = svc.Update(manager, batch.BatchID, dto.UpdateBatchRequest{BatchStatus: &bogus})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestList_ScopedPerRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()
	learnerID := seedLearner(t, db)

	_, err := svc.Create(manager, createReq("FS-10", learnerID))
	require.NoError(t, err)
	_, err = svc.Create(managerPrincipal(), createReq("FS-11"))
	require.NoError(t, err)

	rows, total, err := svc.List(manager, "", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "FS-10", rows[0].BatchCode)

	learner := access.Principal{ID: learnerID, Role: constants.RoleLearner}
	rows, total, err = svc.List(learner, "", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "FS-10", rows[0].BatchCode)

	admin := access.Principal{ID: uuid.New(), Role: constants.RoleAdmin}
	_, total, err = svc.List(admin, "", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestGetByID_LearnerMustBeEnrolled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	learnerID := seedLearner(t, db)

	batch, err := svc.Create(managerPrincipal(), createReq("FS-12", learnerID))
	require.NoError(t, err)

	_, err = svc.GetByID(access.Principal{ID: learnerID, Role: constants.RoleLearner}, batch.BatchID)
	assert.NoError(t, err)

	_, err = svc.GetByID(access.Principal{ID: uuid.New(), Role: constants.RoleLearner}, batch.BatchID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestDelete_RefusedWhenAttendanceExists(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()

	batch, err := svc.Create(manager, createReq("FS-13"))
	require.NoError(t, err)

	attendance := attendanceModel.AttendanceModel{
		AttendanceBatchID:   batch.BatchID,
		AttendanceDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		AttendanceCreatedBy: uuid.New(),
	}
	require.NoError(t, db.Omit("AttendanceRecords").Create(&attendance).Error)

	err = svc.Delete(manager, batch.BatchID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDelete_RemovesBatchAndRoster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)
	manager := managerPrincipal()
	learnerID := seedLearner(t, db)

	batch, err := svc.Create(manager, createReq("FS-14", learnerID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(manager, batch.BatchID))

	_, err = svc.GetByID(manager, batch.BatchID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var joinCount int64
	require.NoError(t, db.Model(&model.BatchLearnerModel{}).
		Where("batch_learner_batch_id = ?", batch.BatchID).
		Count(&joinCount).Error)
	assert.EqualValues(t, 0, joinCount)
}

func TestBatchModel_DurationAndProgress(t *testing.T) {
	batch := model.BatchModel{
		BatchStartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		BatchEndDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		BatchStatus:    model.BatchStatusOngoing,
	}
	assert.Equal(t, 10, batch.DurationDays())

	// 5 dari 10 hari berjalan
	assert.Equal(t, 50, batch.Progress(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	// clamp di bawah dan di atas
	assert.Equal(t, 0, batch.Progress(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100, batch.Progress(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))

	batch.BatchStatus = model.BatchStatusCompleted
	assert.Equal(t, 100, batch.Progress(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
	batch.BatchStatus = model.BatchStatusCancelled
	assert.Equal(t, 0, batch.Progress(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))

	dtoOut := dto.ToBatchDTO(batch, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 10, dtoOut.BatchDurationDays)
	assert.Equal(t, 0, dtoOut.BatchProgress)
}
