package models

import "strconv"

// RoleID identifies the access tier of a user.
type RoleID int

const (
	RoleAdmin RoleID = 1
	RoleGuest RoleID = 2
)

func (r RoleID) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleGuest:
		return "guest"
	default:
		return "role-" + strconv.Itoa(int(r))
	}
}

// RoleAssignment links a user to a role on the backend.
type RoleAssignment struct {
	RoleID   RoleID `json:"role_id"`
	RoleName string `json:"role_name,omitempty"`
}
