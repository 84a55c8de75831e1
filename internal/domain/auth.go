package domain

// Identity is the authenticated caller for the duration of one request.
// A nil *Identity means the request is anonymous.
type Identity struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
