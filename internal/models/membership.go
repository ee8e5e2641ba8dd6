package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// roleRank orders roles for "at least role X" checks. STAFF and EDITOR
// share a rank. Adding a role is a one-line change here.
var roleRank = map[Role]int{
	RoleOwner:  4,
	RoleAdmin:  3,
	RoleStaff:  2,
	RoleEditor: 2,
	RoleViewer: 1,
}

// Rank returns the numeric rank of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r grants everything that min grants.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "ACTIVE"
	MembershipPending MembershipStatus = "PENDING"
	MembershipRevoked MembershipStatus = "REVOKED"
)

type Membership struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	TenantID  uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Role      Role             `json:"role" db:"role"`
	Status    MembershipStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
