package session

import "strings"

// Role is an identity's rank in the platform. Roles are only compared,
// never combined.
type Role int

const (
	// RoleNone ranks below every recognized role. Unknown role strings parse to it.
	RoleNone Role = iota
	RoleUser
	RoleModerator
	RoleAdmin
)

// ParseRole maps a role string from the API to a Role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	case "moderator":
		return RoleModerator
	case "admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Rank returns the position of r in user(1) < moderator(2) < admin(3).
// Anything else ranks 0.
func (r Role) Rank() int {
	if r < RoleUser || r > RoleAdmin {
		return 0
	}
	return int(r)
}

// AtLeast reports whether r satisfies a minimum of required.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank()
}
