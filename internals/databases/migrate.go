package database

import (
	"log"

	attendanceModel "pelatihanku_backend/internals/features/attendance/model"
	auditModel "pelatihanku_backend/internals/features/audits/model"
	batchModel "pelatihanku_backend/internals/features/batches/model"
	classroomModel "pelatihanku_backend/internals/features/classrooms/model"
	duModel "pelatihanku_backend/internals/features/dailyupdates/model"
	userModel "pelatihanku_backend/internals/features/users/model"
)

// AutoMigrate menjalankan migrasi skema untuk seluruh tabel fitur.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&classroomModel.ClassroomModel{},
		&batchModel.BatchModel{},
		&batchModel.BatchLearnerModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceRecordModel{},
		&duModel.DailyUpdateModel{},
		&duModel.DailyUpdateFeedbackModel{},
		&auditModel.AuditLogModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	log.Println("✅ AutoMigrate selesai.")
}
