package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/user"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	"github.com/coursehub/backend/tests"
)

func setup() (*user.Service, testutil.Repos) {
	repos := testutil.NewRepos(inmemdb.Open())
	return user.NewService(repos.Users), repos
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
	require.NotEmpty(t, vErr.Fields)
	return vErr.Fields[0].Field
}

func TestService_Create(t *testing.T) {
	svc, repos := setup()
	admin := testutil.CreateUser(t, repos.Users, "Root", "root@test.cd", core.RoleAdmin)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)

	usr, err := svc.Create(testutil.AsUser(admin), user.NewUser{Email: "grace@test.cd", FullName: "Grace", Role: core.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, core.RoleAdmin, usr.Role)

	_, err = svc.Create(testutil.AsUser(admin), user.NewUser{Email: "ada@test.cd", FullName: "Ada 2", Role: core.RoleStudent})
	assert.Equal(t, "email", fieldOf(t, err))

	_, err = svc.Create(testutil.AsUser(ada), user.NewUser{Email: "x@test.cd", FullName: "X", Role: core.RoleStudent})
	assert.ErrorIs(t, err, core.ErrPermissionDenied)
}

func TestService_Register(t *testing.T) {
	svc, repos := setup()
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	const authID = "5b8e6a0c-8d6f-4b1e-9a43-2f0d7c9e1a11"

	tests := []struct {
		name      string
		ctx       context.Context
		r         user.Registration
		wantErr   error
		wantField string
		wantID    string
	}{
		{
			name: "anonymous student",
			ctx:  context.Background(),
			r:    user.Registration{Email: "bob@test.cd", FullName: "Bob", Role: core.RoleStudent},
		},
		{
			name:   "own auth id",
			ctx:    core.WithIdentity(context.Background(), core.Identity{UserID: authID, Role: core.RoleLecturer}),
			r:      user.Registration{Email: "grace@test.cd", FullName: "Grace", Role: core.RoleLecturer},
			wantID: authID,
		},
		{
			name:      "admin role",
			ctx:       context.Background(),
			r:         user.Registration{Email: "eve@test.cd", FullName: "Eve", Role: core.RoleAdmin},
			wantField: "role",
		},
		{
			name:    "someone else's id",
			ctx:     testutil.AsUser(ada),
			r:       user.Registration{ID: authID, Email: "mal@test.cd", FullName: "Mal", Role: core.RoleStudent},
			wantErr: core.ErrPermissionDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Register(tt.ctx, tt.r)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				assert.Equal(t, tt.wantField, fieldOf(t, err))
			default:
				require.NoError(t, err)
				if tt.wantID != "" {
					assert.Equal(t, tt.wantID, usr.ID)
				}
				got, err := svc.GetByEmail(context.Background(), " "+tt.r.Email+" ")
				require.NoError(t, err)
				assert.Equal(t, usr, got)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, repos := setup()
	admin := testutil.CreateUser(t, repos.Users, "Root", "root@test.cd", core.RoleAdmin)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	bob := testutil.CreateUser(t, repos.Users, "Bob", "bob@test.cd", core.RoleStudent)

	name := "Ada Lovelace"
	usr, err := svc.Update(testutil.AsUser(ada), user.UpdateUser{ID: ada.ID, FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, usr.FullName)

	role := core.RoleLecturer
	_, err = svc.Update(testutil.AsUser(ada), user.UpdateUser{ID: ada.ID, Role: &role})
	assert.ErrorIs(t, err, core.ErrPermissionDenied)

	_, err = svc.Update(testutil.AsUser(ada), user.UpdateUser{ID: bob.ID, FullName: &name})
	assert.ErrorIs(t, err, core.ErrPermissionDenied)

	usr, err = svc.Update(testutil.AsUser(admin), user.UpdateUser{ID: bob.ID, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, core.RoleLecturer, usr.Role)

	email := "ada@test.cd"
	_, err = svc.Update(testutil.AsUser(admin), user.UpdateUser{ID: bob.ID, Email: &email})
	assert.Equal(t, "email", fieldOf(t, err))
}

func TestService_Delete(t *testing.T) {
	svc, repos := setup()
	admin := testutil.CreateUser(t, repos.Users, "Root", "root@test.cd", core.RoleAdmin)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)

	assert.ErrorIs(t, svc.Delete(testutil.AsUser(ada), admin.ID), core.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(testutil.AsUser(admin), admin.ID), core.ErrPermissionDenied)

	require.NoError(t, svc.Delete(testutil.AsUser(admin), ada.ID))
	_, err := svc.GetByID(context.Background(), ada.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.True(t, core.IsNotFound(svc.Delete(testutil.AsUser(admin), ada.ID)))
}

func TestService_Query(t *testing.T) {
	svc, repos := setup()
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)

	users, err := svc.Query(context.Background(), user.QueryFilter{Role: " STUDENT "})
	require.NoError(t, err)
	assert.Equal(t, []user.User{ada}, users)

	users, err = svc.Query(context.Background(), user.QueryFilter{Search: "grace@"})
	require.NoError(t, err)
	assert.Equal(t, []user.User{grace}, users)

	many, err := svc.GetMany(context.Background())
	require.NoError(t, err)
	assert.Empty(t, many)
}

func TestRegistration_Validate(t *testing.T) {
	validate := testutil.NewValidator()
	tests := []struct {
		name    string
		role    string
		wantErr bool
	}{
		{name: "student", role: core.RoleStudent},
		{name: "lecturer", role: " LECTURER "},
		{name: "admin", role: core.RoleAdmin, wantErr: true},
		{name: "unknown", role: "dean", wantErr: true},
		{name: "missing", role: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := user.Registration{Email: "ada@test.cd", FullName: "Ada", Role: tt.role}
			err := r.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}
