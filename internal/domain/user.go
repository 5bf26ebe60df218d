package domain

import "github.com/google/uuid"

type Role string

const (
	RoleCitizen          Role = "citizen"
	RoleEmergencyService Role = "emergency_service"
	RoleAdmin            Role = "admin"
)

// Actor is the authenticated principal extracted from a bearer token.
// Identity and role are verified upstream; services only check the role.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleEmergencyService || a.Role == RoleAdmin
}
