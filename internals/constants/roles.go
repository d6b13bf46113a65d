package constants

import "fmt"

// Enam role sistem (selaras dengan kolom user_role)
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleTeamLeader = "TEAM_LEADER"
	RoleTrainer    = "TRAINER"
	RoleTA         = "TA"
	RoleLearner    = "LEARNER"
)

// Template pesan error role
const (
	ErrOnlyTrainersCanAccess  = "Hanya trainer atau TA yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess    = "Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyManagersCanAccess  = "Hanya admin atau manager yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess     = "Hanya role selain learner yang boleh mengakses fitur %s."
	ErrOnlyReviewersCanAccess = "Hanya manager atau team leader yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorTrainer(feature string) string {
	return fmt.Sprintf(ErrOnlyTrainersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorReviewer(feature string) string {
	return fmt.Sprintf(ErrOnlyReviewersCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleManager,
		RoleTeamLeader,
		RoleTrainer,
		RoleTA,
		RoleLearner,
	}

	// Semua role kecuali learner
	StaffRoles = []string{
		RoleAdmin,
		RoleManager,
		RoleTeamLeader,
		RoleTrainer,
		RoleTA,
	}

	// Role yang boleh menandai absensi / membuat laporan harian
	MarkerRoles = []string{
		RoleTrainer,
		RoleTA,
	}

	// Marker + admin (update absensi)
	MarkerAndAdmin = []string{
		RoleTrainer,
		RoleTA,
		RoleAdmin,
	}

	// Role yang boleh memberi feedback laporan harian
	ReviewerRoles = []string{
		RoleManager,
		RoleTeamLeader,
	}

	// Role yang boleh membuat / mengelola batch
	ManagerAndAbove = []string{
		RoleManager,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

// IsValidRole memastikan string role dikenal sistem.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
