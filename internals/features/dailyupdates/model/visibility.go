package model

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"pelatihanku_backend/internals/constants"
)

// Visibility hanya boleh berisi role staf non-admin ini.
var allowedVisibilityRoles = []string{
	constants.RoleManager,
	constants.RoleTeamLeader,
	constants.RoleTrainer,
	constants.RoleTA,
}

func DefaultVisibility() datatypes.JSON {
	raw, _ := sonic.Marshal([]string{constants.RoleManager, constants.RoleTeamLeader})
	return datatypes.JSON(raw)
}

func EncodeVisibility(roles []string) (datatypes.JSON, bool) {
	for _, r := range roles {
		if !isAllowedVisibilityRole(r) {
			return nil, false
		}
	}
	raw, err := sonic.Marshal(roles)
	if err != nil {
		return nil, false
	}
	return datatypes.JSON(raw), true
}

// VisibilityRoles mendekode kolom visibility; kolom kosong/rusak = default.
func (m *DailyUpdateModel) VisibilityRoles() []string {
	if len(m.DailyUpdateVisibility) == 0 {
		return []string{constants.RoleManager, constants.RoleTeamLeader}
	}
	var roles []string
	if err := sonic.Unmarshal(m.DailyUpdateVisibility, &roles); err != nil {
		return []string{constants.RoleManager, constants.RoleTeamLeader}
	}
	return roles
}

func isAllowedVisibilityRole(role string) bool {
	for _, r := range allowedVisibilityRoles {
		if r == role {
			return true
		}
	}
	return false
}
