package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	errNoPermsToSetRole = "not enough rights to set this role"
)

type Repository interface {
	// CreateUser returns ErrEmailExists when the email is taken.
	CreateUser(ctx context.Context, usr User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]User, error)
	// QueryUsers does a case-insensitive QueryFilter.Search on User.FullName or User.Email.
	QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
	// UpdateUser returns ErrEmailExists when the new email is taken.
	UpdateUser(ctx context.Context, usr User) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) trapEmailExists(err error) error {
	if errors.Is(err, ErrEmailExists) {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	return err
}

func (svc *Service) create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        nu.ID,
		Email:     nu.Email,
		FullName:  nu.FullName,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(svc.trapEmailExists(err), "creating user")
	}
	return usr, nil
}

// Create is the privileged insert path: only admins may call it, with any role.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if !core.IdentityFrom(ctx).IsAdmin() {
		return User{}, core.ErrPermissionDenied
	}
	return svc.create(ctx, nu)
}

// Register is the self-insert path: the role is restricted to student or lecturer
// and an authenticated caller can only register their own ID.
func (svc *Service) Register(ctx context.Context, r Registration) (User, error) {
	nu := NewUser{ID: r.ID, Email: r.Email, FullName: r.FullName, Role: r.Role}
	if !(nu.Role == core.RoleStudent || nu.Role == core.RoleLecturer) {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}
	caller := core.IdentityFrom(ctx)
	if !caller.IsAnonymous() {
		if nu.ID != "" && nu.ID != caller.UserID {
			return User{}, core.ErrPermissionDenied
		}
		nu.ID = caller.UserID
	}
	return svc.create(ctx, nu)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetMany(ctx context.Context, ids ...string) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return svc.repo.GetUsersByIDs(ctx, ids)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter)
}

// Update lets admins change anything; users may only change their own name.
func (svc *Service) Update(ctx context.Context, uu UpdateUser) (User, error) {
	caller := core.IdentityFrom(ctx)
	if !caller.IsAdmin() {
		if caller.UserID != uu.ID || uu.Email != nil || uu.Role != nil {
			return User{}, core.ErrPermissionDenied
		}
	}
	// caller cannot set a role > their own
	if uu.Role != nil && core.RolePriority(*uu.Role) > core.RolePriority(caller.Role) {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}

	usr, err := svc.repo.GetUser(ctx, uu.ID)
	if err != nil {
		return User{}, err
	}
	uu.apply(&usr)
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(svc.trapEmailExists(err), "updating user")
	}
	return usr, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	caller := core.IdentityFrom(ctx)
	if !caller.IsAdmin() {
		return core.ErrPermissionDenied
	}
	// Say No to Suicide! admins cannot delete themselves
	if caller.UserID == id {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetUser(ctx, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteUser(ctx, id), "deleting user")
}
