package finance

import "github.com/google/uuid"

// Role is the authorization level of an authenticated user
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanApprove returns true for roles allowed to decide approvals
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// Actor is the authenticated user on whose behalf an operation runs. Every
// workflow operation takes one; company scoping and role checks are applied
// here in the application layer.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	CompanyID uuid.UUID
}
