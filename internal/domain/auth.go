package domain

import "time"

// Portal identifies which login entry point a caller used.
type Portal string

const (
	PortalStudent Portal = "STUDENT"
	PortalStaff   Portal = "STAFF"
)

// Admits reports whether an account with role may sign in through p.
func (p Portal) Admits(role Role) bool {
	switch p {
	case PortalStudent:
		return role == RoleStudent
	case PortalStaff:
		return role.IsStaff()
	default:
		return false
	}
}

// Session describes an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
