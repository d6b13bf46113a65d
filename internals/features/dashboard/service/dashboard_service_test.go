package service

import (
	"sort"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/features/attendance/model"
	batchModel "pelatihanku_backend/internals/features/batches/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&batchModel.BatchModel{},
		&model.AttendanceModel{},
		&model.AttendanceRecordModel{},
	))
	return db
}

func seedBatch(t *testing.T, db *gorm.DB) batchModel.BatchModel {
	t.Helper()
	batch := batchModel.BatchModel{
		BatchName:      "Cloud Fundamentals",
		BatchCode:      "CF-" + uuid.NewString()[:8],
		BatchStartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		BatchEndDate:   time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		BatchStatus:    batchModel.BatchStatusOngoing,
		BatchCreatedBy: uuid.New(),
	}
	require.NoError(t, db.Omit("BatchLearners").Create(&batch).Error)
	return batch
}

func seedDay(t *testing.T, db *gorm.DB, batchID uuid.UUID, date time.Time, statuses map[uuid.UUID]model.AttendanceStatus) {
	t.Helper()
	attendance := model.AttendanceModel{
		AttendanceBatchID:   batchID,
		AttendanceDate:      date,
		AttendanceCreatedBy: uuid.New(),
	}
	require.NoError(t, db.Omit("AttendanceRecords").Create(&attendance).Error)
	for learnerID, status := range statuses {
		record := model.AttendanceRecordModel{
			AttendanceRecordAttendanceID: attendance.AttendanceID,
			AttendanceRecordLearnerID:    learnerID,
			AttendanceRecordStatus:       status,
			AttendanceRecordMarkedBy:     attendance.AttendanceCreatedBy,
			AttendanceRecordMarkedAt:     date,
		}
		require.NoError(t, db.Create(&record).Error)
	}
}

func TestBatchStats_UnknownBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	_, err := svc.BatchStats(uuid.New(), nil, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBatchStats_EmptyBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	batch := seedBatch(t, db)

	stats, err := svc.BatchStats(batch.BatchID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, "0.00", stats.AverageRate)
	assert.Empty(t, stats.PerDay)
	assert.Empty(t, stats.PerLearner)
}

func TestBatchStats_HistogramAndPerDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	batch := seedBatch(t, db)
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()

	// Hari 1: 2 dari 3 dihitung hadir (LATE termasuk hadir)
	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		l1: model.AttendanceStatusPresent,
		l2: model.AttendanceStatusLate,
		l3: model.AttendanceStatusAbsent,
	})
	// Hari 2: HALF_DAY juga hadir, LEAVE tidak
	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		l1: model.AttendanceStatusHalfDay,
		l2: model.AttendanceStatusLeave,
		l3: model.AttendanceStatusPresent,
	})

	stats, err := svc.BatchStats(batch.BatchID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.StatusHistogram[string(model.AttendanceStatusPresent)])
	assert.Equal(t, 1, stats.StatusHistogram[string(model.AttendanceStatusLate)])
	assert.Equal(t, 1, stats.StatusHistogram[string(model.AttendanceStatusAbsent)])
	assert.Equal(t, 1, stats.StatusHistogram[string(model.AttendanceStatusHalfDay)])
	assert.Equal(t, 1, stats.StatusHistogram[string(model.AttendanceStatusLeave)])

	require.Len(t, stats.PerDay, 2)
	assert.Equal(t, 2, stats.PerDay[0].Present)
	assert.Equal(t, 3, stats.PerDay[0].Total)
	assert.Equal(t, 67, stats.PerDay[0].Percentage)
	assert.Equal(t, 2, stats.PerDay[1].Present)
	assert.Equal(t, 67, stats.PerDay[1].Percentage)
	assert.Equal(t, "67.00", stats.AverageRate)
}

func TestBatchStats_PerLearnerRatio(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	batch := seedBatch(t, db)
	diligent, struggling := uuid.New(), uuid.New()

	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		diligent:   model.AttendanceStatusPresent,
		struggling: model.AttendanceStatusAbsent,
	})
	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		diligent:   model.AttendanceStatusLate,
		struggling: model.AttendanceStatusAbsent,
	})
	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		diligent:   model.AttendanceStatusPresent,
		struggling: model.AttendanceStatusPresent,
	})

	stats, err := svc.BatchStats(batch.BatchID, nil, nil)
	require.NoError(t, err)
	require.Len(t, stats.PerLearner, 2)

	byID := map[string]LearnerStat{}
	for _, ls := range stats.PerLearner {
		byID[ls.LearnerID] = ls
	}

	assert.Equal(t, 3, byID[diligent.String()].PresentDays)
	assert.Equal(t, 3, byID[diligent.String()].TotalDays)
	assert.Equal(t, "100.00", byID[diligent.String()].Ratio)

	assert.Equal(t, 1, byID[struggling.String()].PresentDays)
	assert.Equal(t, 3, byID[struggling.String()].TotalDays)
	assert.Equal(t, "33.33", byID[struggling.String()].Ratio)

	// urut naik berdasarkan learner ID supaya respons konsisten
	assert.True(t, sort.SliceIsSorted(stats.PerLearner, func(i, j int) bool {
		return stats.PerLearner[i].LearnerID < stats.PerLearner[j].LearnerID
	}))
}

func TestBatchStats_DateRangeFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)
	batch := seedBatch(t, db)
	learner := uuid.New()

	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		learner: model.AttendanceStatusPresent,
	})
	seedDay(t, db, batch.BatchID, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), map[uuid.UUID]model.AttendanceStatus{
		learner: model.AttendanceStatusAbsent,
	})

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	stats, err := svc.BatchStats(batch.BatchID, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 0, stats.StatusHistogram[string(model.AttendanceStatusPresent)])
	assert.Equal(t, 1, stats.StatusHistogram[string(model.AttendanceStatusAbsent)])
}
