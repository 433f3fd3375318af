package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u User) IsAdmin() bool    { return u.Role == core.RoleAdmin }
func (u User) IsLecturer() bool { return u.Role == core.RoleLecturer }
func (u User) IsStudent() bool  { return u.Role == core.RoleStudent }

// NewUser contains information needed to create a new User.
// ID is optional: users registering themselves reuse the ID of their auth account.
type NewUser struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,notblank"`
	Role     string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.ID = core.CleanString(nu.ID, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return validate.Struct(nu)
}

// Registration is what users provide to sign themselves up.
// ID is the identity provider's user ID, when known.
type Registration struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,notblank"`
	Role     string `json:"role" validate:"required,selfrole"`
}

func (r *Registration) Validate(validate *validator.Validate) error {
	r.ID = core.CleanString(r.ID, true /* lower */)
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.FullName = core.CleanString(r.FullName)
	r.Role = core.CleanString(r.Role, true /* lower */)
	return validate.Struct(r)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	ID       string  `json:"user_id" validate:"required,uuid"`
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,notblank"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Email = core.CleanStringPtr(uu.Email, true /* lower */)
	uu.FullName = core.CleanStringPtr(uu.FullName)
	uu.Role = core.CleanStringPtr(uu.Role, true /* lower */)
	return validate.Struct(uu)
}

func (uu UpdateUser) apply(usr *User) {
	if uu.Email != nil {
		usr.Email = *uu.Email
	}
	if uu.FullName != nil {
		usr.FullName = *uu.FullName
	}
	if uu.Role != nil {
		usr.Role = *uu.Role
	}
}

type QueryFilter struct {
	Role   string `json:"role"`
	Search string `json:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Search = core.CleanString(qf.Search)
}
