package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/user"
	"github.com/coursehub/backend/tests"
)

func Test_userFunctions(t *testing.T) {
	app, repos := setup(t)

	admin := testutil.CreateUser(t, repos.Users, "Root", "root@test.cd", core.RoleAdmin)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	adminToken := getToken(t, admin)
	adaToken := getToken(t, ada)

	runTests(t, app, "user-service", []httpTest{
		{
			name: "create_user needs admin", action: "create_user", token: adaToken,
			data:     map[string]string{"email": "x@test.cd", "full_name": "X", "role": "lecturer"},
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "register as admin", action: "register",
			data:     map[string]string{"email": "eve@test.cd", "full_name": "Eve", "role": "admin"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid data", Fields: map[string]string{"role": "role must be one of student or lecturer"}}),
		},
		{
			name: "register taken email", action: "register",
			data:     map[string]string{"email": "ADA@test.cd", "full_name": "Ada 2", "role": "student"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "a user with this email already exists",
				Fields: map[string]string{"email": "a user with this email already exists"},
			}),
		},
		{
			name: "invalid email", action: "register",
			data:     map[string]string{"email": "nope", "full_name": "Nope", "role": "student"},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "get_user defaults to caller", action: "get_user", token: adaToken,
			wantCode: http.StatusOK, wantData: success(t, "user", ada),
		},
		{
			name: "delete self", action: "delete_user", token: adminToken, data: map[string]string{"user_id": admin.ID},
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	})

	rec := call(t, app, "user-service", adminToken, "create_user", map[string]string{
		"email": " Grace@Test.cd ", "full_name": "Grace", "role": "lecturer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grace user.User
	decodeInto(t, rec, "user", &grace)
	assert.Equal(t, "grace@test.cd", grace.Email)
	assert.Equal(t, core.RoleLecturer, grace.Role)

	rec = call(t, app, "user-service", adaToken, "update_user", map[string]string{"user_id": ada.ID, "full_name": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated user.User
	decodeInto(t, rec, "user", &updated)
	assert.Equal(t, "Ada Lovelace", updated.FullName)

	rec = call(t, app, "user-service", adminToken, "get_users", map[string]string{"role": "lecturer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var users []user.User
	decodeInto(t, rec, "users", &users)
	require.Len(t, users, 1)
	assert.Equal(t, grace.ID, users[0].ID)

	runTests(t, app, "user-service", []httpTest{
		{
			name: "delete_user", action: "delete_user", token: adminToken, data: map[string]string{"user_id": grace.ID},
			wantCode: http.StatusOK, wantData: success(t),
		},
		{
			name: "get deleted", action: "get_user", data: map[string]string{"user_id": grace.ID},
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
	})
}
