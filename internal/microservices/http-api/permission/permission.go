// Package permission holds the access rules applied to API requests.
//
// Every rule is a pure function of the caller and either the request method or
// the target object. A rule never errors; a false result is a denial.
package permission

import (
	"net/http"

	"yamdb/internal/microservices/http-api/models"
)

// Caller is the identity a request runs as. The zero value is anonymous.
type Caller struct {
	UserID        string
	Username      string
	Role          models.Role
	Superuser     bool
	Authenticated bool
}

func Anonymous() Caller {
	return Caller{}
}

// FromUser builds an authenticated caller from a stored user.
func FromUser(u *models.User) Caller {
	return Caller{
		UserID:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Superuser:     u.IsSuperuser,
		Authenticated: true,
	}
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated && (c.Role.CanWrite() || c.Superuser)
}

func (c Caller) CanModerate() bool {
	return c.Authenticated && (c.Role.CanModerate() || c.Superuser)
}

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// ReadOnlyOrAdmin lets everyone read and only admins write.
func ReadOnlyOrAdmin(c Caller, method string) bool {
	return IsSafeMethod(method) || c.IsAdmin()
}

func AdminOnly(c Caller) bool {
	return c.IsAdmin()
}

// SelfOrAdmin allows access to the caller's own account, or any account for admins.
func SelfOrAdmin(c Caller, targetUserID string) bool {
	if !c.Authenticated {
		return false
	}
	return c.UserID == targetUserID || c.IsAdmin()
}

// ReadOnlyOrAuthenticated lets everyone read and any signed-in user write.
func ReadOnlyOrAuthenticated(c Caller, method string) bool {
	return IsSafeMethod(method) || c.Authenticated
}

// AuthorOrModeratorOrAdmin allows changes to an object by its author or by staff.
func AuthorOrModeratorOrAdmin(c Caller, authorID string) bool {
	if !c.Authenticated {
		return false
	}
	return c.UserID == authorID || c.CanModerate()
}

// Rule is a request-level check evaluated against the HTTP method.
type Rule func(c Caller, method string) bool

// AdminOnlyRule adapts AdminOnly to a Rule.
func AdminOnlyRule(c Caller, _ string) bool {
	return AdminOnly(c)
}

// Authenticated admits any signed-in caller.
func Authenticated(c Caller, _ string) bool {
	return c.Authenticated
}
