package core

import "context"

// Roles
const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

// Enrollment statuses
const (
	EnrollmentActive    = "active"
	EnrollmentDropped   = "dropped"
	EnrollmentCompleted = "completed"
)

var rolePriorities = map[string]int{
	RoleAdmin:    30,
	RoleLecturer: 20,
	RoleStudent:  10,
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func IsValidRole(role string) bool {
	_, ok := rolePriorities[role]
	return ok
}

// Identity is the caller as carried by the forwarded Authorization header.
// The zero value is an anonymous caller.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (id Identity) IsAnonymous() bool { return id.UserID == "" }
func (id Identity) IsAdmin() bool     { return id.Role == RoleAdmin }
func (id Identity) IsLecturer() bool  { return id.Role == RoleLecturer }
func (id Identity) IsStudent() bool   { return id.Role == RoleStudent }

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored in ctx, or an anonymous Identity.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
