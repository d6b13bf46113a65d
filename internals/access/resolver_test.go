package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pelatihanku_backend/internals/constants"
)

func TestCanAccessAttendance(t *testing.T) {
	manager := uuid.New()
	learner := uuid.New()
	other := uuid.New()
	entries := []uuid.UUID{learner, uuid.New()}

	cases := []struct {
		name string
		p    Principal
		want bool
	}{
		{"admin selalu boleh", Principal{ID: other, Role: constants.RoleAdmin}, true},
		{"learner tercantum", Principal{ID: learner, Role: constants.RoleLearner}, true},
		{"learner tidak tercantum", Principal{ID: other, Role: constants.RoleLearner}, false},
		{"manager pemilik batch", Principal{ID: manager, Role: constants.RoleManager}, true},
		{"manager lain", Principal{ID: other, Role: constants.RoleManager}, false},
		{"trainer lolos role gate", Principal{ID: other, Role: constants.RoleTrainer}, true},
		{"ta lolos role gate", Principal{ID: other, Role: constants.RoleTA}, true},
		{"team leader lolos role gate", Principal{ID: other, Role: constants.RoleTeamLeader}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccessAttendance(tc.p, manager, entries))
		})
	}
}

func TestCanAccessDailyUpdate(t *testing.T) {
	poster := uuid.New()
	other := uuid.New()
	visibility := []string{constants.RoleManager, constants.RoleTeamLeader}

	assert.True(t, CanAccessDailyUpdate(Principal{ID: other, Role: constants.RoleAdmin}, poster, visibility))
	assert.True(t, CanAccessDailyUpdate(Principal{ID: poster, Role: constants.RoleTrainer}, poster, visibility))
	assert.True(t, CanAccessDailyUpdate(Principal{ID: other, Role: constants.RoleManager}, poster, visibility))
	assert.False(t, CanAccessDailyUpdate(Principal{ID: other, Role: constants.RoleTrainer}, poster, visibility))
	assert.False(t, CanAccessDailyUpdate(Principal{ID: other, Role: constants.RoleTA}, poster, visibility))
}

func TestCanMutateAttendance(t *testing.T) {
	trainer := Principal{ID: uuid.New(), Role: constants.RoleTrainer}
	ta := Principal{ID: uuid.New(), Role: constants.RoleTA}
	admin := Principal{ID: uuid.New(), Role: constants.RoleAdmin}
	manager := Principal{ID: uuid.New(), Role: constants.RoleManager}

	// Belum terkunci: trainer/ta/admin boleh, selain itu tidak.
	assert.True(t, CanMutateAttendance(trainer, false))
	assert.True(t, CanMutateAttendance(ta, false))
	assert.True(t, CanMutateAttendance(admin, false))
	assert.False(t, CanMutateAttendance(manager, false))

	// Sudah terkunci: hanya admin.
	assert.False(t, CanMutateAttendance(trainer, true))
	assert.False(t, CanMutateAttendance(ta, true))
	assert.True(t, CanMutateAttendance(admin, true))
}

func TestCanGiveFeedback(t *testing.T) {
	visibility := []string{constants.RoleManager}

	assert.True(t, CanGiveFeedback(Principal{ID: uuid.New(), Role: constants.RoleManager}, visibility))
	// Team leader reviewer tapi tidak ada di visibility set.
	assert.False(t, CanGiveFeedback(Principal{ID: uuid.New(), Role: constants.RoleTeamLeader}, visibility))
	// Trainer selalu ditolak, apa pun isi visibility.
	assert.False(t, CanGiveFeedback(Principal{ID: uuid.New(), Role: constants.RoleTrainer}, []string{constants.RoleTrainer}))
	assert.False(t, CanGiveFeedback(Principal{ID: uuid.New(), Role: constants.RoleAdmin}, visibility))
}

func TestCanManageBatch(t *testing.T) {
	owner := uuid.New()
	assert.True(t, CanManageBatch(Principal{ID: uuid.New(), Role: constants.RoleAdmin}, owner))
	assert.True(t, CanManageBatch(Principal{ID: owner, Role: constants.RoleManager}, owner))
	assert.False(t, CanManageBatch(Principal{ID: uuid.New(), Role: constants.RoleManager}, owner))
	assert.False(t, CanManageBatch(Principal{ID: owner, Role: constants.RoleTrainer}, owner))
}
