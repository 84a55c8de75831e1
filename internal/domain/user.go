package domain

import "time"

// Role is the coarse RBAC label carried by every account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole parses a role label. Unknown labels report false.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// User is the persisted account. Email is the unique subject used in tokens.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
