package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/apperr"
	"pelatihanku_backend/internals/features/attendance/model"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

type DayStat struct {
	Date       time.Time `json:"date"`
	Present    int       `json:"present"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
}

type LearnerStat struct {
	LearnerID   string `json:"learner_id"`
	PresentDays int    `json:"present_days"`
	TotalDays   int    `json:"total_days"`
	Ratio       string `json:"ratio"` // 2 desimal
}

type BatchAttendanceStats struct {
	BatchID         string         `json:"batch_id"`
	TotalSessions   int            `json:"total_sessions"`
	StatusHistogram map[string]int `json:"status_histogram"`
	PerDay          []DayStat      `json:"per_day"`
	AverageRate     string         `json:"average_rate"` // rata-rata persentase harian, 2 desimal
	PerLearner      []LearnerStat  `json:"per_learner"`
}

// BatchStats dihitung ulang per request dari ledger; tidak ada cache.
func (s *DashboardService) BatchStats(batchID uuid.UUID, start, end *time.Time) (BatchAttendanceStats, error) {
	var batchCount int64
	if err := s.DB.Table("batches").Where("batch_id = ?", batchID).Count(&batchCount).Error; err != nil {
		return BatchAttendanceStats{}, apperr.Wrap(apperr.KindInternal, "cek batch", err)
	}
	if batchCount == 0 {
		return BatchAttendanceStats{}, apperr.NotFound("Batch tidak ditemukan")
	}

	q := s.DB.Model(&model.AttendanceModel{}).Where("attendance_batch_id = ?", batchID)
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
		return BatchAttendanceStats{}, apperr.Wrap(apperr.KindInternal, "ambil ledger batch", err)
	}

	stats := BatchAttendanceStats{
		BatchID:         batchID.String(),
		TotalSessions:   len(attendances),
		StatusHistogram: map[string]int{},
		PerDay:          []DayStat{},
		AverageRate:     "0.00",
		PerLearner:      []LearnerStat{},
	}

	type learnerAgg struct {
		present int
		total   int
	}
	perLearner := map[uuid.UUID]*learnerAgg{}
	sumDailyPct := 0.0

	for _, att := range attendances {
		day := DayStat{Date: att.AttendanceDate, Total: len(att.AttendanceRecords)}
		for _, r := range att.AttendanceRecords {
			stats.StatusHistogram[string(r.AttendanceRecordStatus)]++

			agg := perLearner[r.AttendanceRecordLearnerID]
			if agg == nil {
				agg = &learnerAgg{}
				perLearner[r.AttendanceRecordLearnerID] = agg
			}
			agg.total++
			if model.IsPresentStatus(r.AttendanceRecordStatus) {
				day.Present++
				agg.present++
			}
		}
		if day.Total > 0 {
			day.Percentage = int(float64(day.Present)/float64(day.Total)*100 + 0.5)
		}
		sumDailyPct += float64(day.Percentage)
		stats.PerDay = append(stats.PerDay, day)
	}

	if len(stats.PerDay) > 0 {
		stats.AverageRate = fmt.Sprintf("%.2f", sumDailyPct/float64(len(stats.PerDay)))
	}

	for learnerID, agg := range perLearner {
		ratio := "0.00"
		if agg.total > 0 {
			ratio = fmt.Sprintf("%.2f", float64(agg.present)/float64(agg.total)*100)
		}
		stats.PerLearner = append(stats.PerLearner, LearnerStat{
			LearnerID:   learnerID.String(),
			PresentDays: agg.present,
			TotalDays:   agg.total,
			Ratio:       ratio,
		})
	}
	// urutan stabil; iterasi map tidak terjamin urutannya
	sort.Slice(stats.PerLearner, func(i, j int) bool {
		return stats.PerLearner[i].LearnerID < stats.PerLearner[j].LearnerID
	})
	return stats, nil
}
