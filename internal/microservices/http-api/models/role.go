package models

// Role is the access level stored on a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanWrite reports whether the role may change catalog structure and manage users.
func (r Role) CanWrite() bool {
	return r == RoleAdmin
}

// CanModerate reports whether the role may edit or delete content authored by others.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}
