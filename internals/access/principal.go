// internals/access/principal.go
package access

import (
	"github.com/google/uuid"

	"pelatihanku_backend/internals/constants"
)

// Principal adalah aktor terautentikasi yang melakukan request.
// Diisi oleh auth middleware dari klaim JWT.
type Principal struct {
	ID   uuid.UUID
	Role string
}

func (p Principal) Is(role string) bool { return p.Role == role }

func (p Principal) In(roles []string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool   { return p.Role == constants.RoleAdmin }
func (p Principal) IsLearner() bool { return p.Role == constants.RoleLearner }
