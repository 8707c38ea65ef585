package domain

// Role is the access tier granted to a device after login.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole maps a stored token to a role. Anything other than a
// grantable role is treated as guest.
func ParseRole(token string) Role {
	switch Role(token) {
	case RoleStudent, RoleTeacher:
		return Role(token)
	default:
		return RoleGuest
	}
}

// Grantable reports whether the role can be stored after a login.
func (r Role) Grantable() bool {
	return r == RoleStudent || r == RoleTeacher
}
