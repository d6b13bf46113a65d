// internals/access/resolver.go
//
// Satu sumber kebenaran untuk aturan visibilitas absensi & laporan harian.
// Semua fungsi di sini murni: tidak menyentuh DB, mudah diuji.
package access

import (
	"github.com/google/uuid"

	"pelatihanku_backend/internals/constants"
)

// CanAccessAttendance menentukan apakah principal boleh membaca satu
// record absensi.
//   - ADMIN: selalu boleh.
//   - LEARNER: hanya jika dirinya tercantum di entri record.
//   - MANAGER: hanya jika dia pembuat batch record tsb.
//   - TEAM_LEADER/TRAINER/TA: sudah lolos role gate di route, selalu boleh.
func CanAccessAttendance(p Principal, batchCreatedBy uuid.UUID, entryLearnerIDs []uuid.UUID) bool {
	switch p.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleLearner:
		for _, id := range entryLearnerIDs {
			if id == p.ID {
				return true
			}
		}
		return false
	case constants.RoleManager:
		return batchCreatedBy == p.ID
	case constants.RoleTeamLeader, constants.RoleTrainer, constants.RoleTA:
		return true
	}
	return false
}

// CanAccessDailyUpdate menentukan apakah principal boleh membaca satu
// laporan harian: admin, poster-nya sendiri, atau role yang tercantum
// di visibility set.
func CanAccessDailyUpdate(p Principal, postedBy uuid.UUID, visibility []string) bool {
	if p.Role == constants.RoleAdmin {
		return true
	}
	if postedBy == p.ID {
		return true
	}
	for _, role := range visibility {
		if role == p.Role {
			return true
		}
	}
	return false
}

// CanMutateAttendance menentukan apakah principal boleh mengubah record
// absensi. effectiveLocked harus hasil evaluasi lock 24 jam, bukan flag
// tersimpan mentah.
func CanMutateAttendance(p Principal, effectiveLocked bool) bool {
	if effectiveLocked && p.Role != constants.RoleAdmin {
		return false
	}
	return p.In(constants.MarkerAndAdmin)
}

// CanGiveFeedback: hanya manager/team leader yang juga lolos visibility.
func CanGiveFeedback(p Principal, visibility []string) bool {
	if !p.In(constants.ReviewerRoles) {
		return false
	}
	for _, role := range visibility {
		if role == p.Role {
			return true
		}
	}
	return false
}

// CanManageBatch: pembuat batch (manager) atau admin.
func CanManageBatch(p Principal, batchCreatedBy uuid.UUID) bool {
	if p.Role == constants.RoleAdmin {
		return true
	}
	return p.Role == constants.RoleManager && batchCreatedBy == p.ID
}
