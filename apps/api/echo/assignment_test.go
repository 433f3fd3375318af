package echoapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/tests"
)

func Test_assignmentFunctions(t *testing.T) {
	app, repos := setup(t)
	ctx := context.Background()

	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	bob := testutil.CreateUser(t, repos.Users, "Bob", "bob@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	testutil.CreateEnrollment(t, repos.Enrollments, ada.ID, c.ID, enrollment.StatusActive)
	testutil.CreateEnrollment(t, repos.Enrollments, bob.ID, c.ID, enrollment.StatusDropped)

	due := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := call(t, app, "assignment-service", getToken(t, grace), "create_assignment", map[string]interface{}{
		"course_id": c.ID,
		"title":     "Parser",
		"due_date":  due.Format(time.RFC3339),
		"max_grade": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var a assignment.Assignment
	decodeInto(t, rec, "assignment", &a)
	assert.Equal(t, c.ID, a.CourseID)
	assert.True(t, due.Equal(a.DueDate))
	assert.Equal(t, 20.0, a.MaxGrade)

	// only active students are told
	notes, err := repos.Notifications.QueryNotifications(ctx, notification.QueryFilter{UserID: ada.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "New Assignment", notes[0].Title)
	notes, err = repos.Notifications.QueryNotifications(ctx, notification.QueryFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, notes)

	stored, err := repos.Assignments.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	soon := testutil.CreateAssignment(t, repos.Assignments, c.ID, "Lexer", 10, due.Add(-24*time.Hour))

	runTests(t, app, "assignment-service", []httpTest{
		{
			name: "get_assignments by due date", action: "get_assignments", data: map[string]string{"course_id": c.ID},
			wantCode: http.StatusOK, wantData: success(t, "assignments", []assignment.Assignment{soon, stored}),
		},
		{
			name: "get_assignment", action: "get_assignment", data: map[string]string{"assignment_id": a.ID},
			wantCode: http.StatusOK, wantData: success(t, "assignment", stored),
		},
		{
			name: "max_grade must be positive", action: "create_assignment",
			data:     map[string]interface{}{"course_id": c.ID, "title": "Bad", "due_date": due, "max_grade": 0},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid data", Fields: map[string]string{"max_grade": "this field is required"}}),
		},
		{
			name: "unknown course", action: "create_assignment",
			data:     map[string]interface{}{"course_id": "0b7e1a54-2b56-4d0b-9d5e-0f3c1b2a3d4e", "title": "Bad", "due_date": due, "max_grade": 10},
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "course not found"}),
		},
		{
			name: "delete_assignment", action: "delete_assignment", data: map[string]string{"assignment_id": soon.ID},
			wantCode: http.StatusOK, wantData: success(t),
		},
	})

	rec = call(t, app, "assignment-service", "", "update_assignment", map[string]interface{}{"assignment_id": a.ID, "max_grade": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeInto(t, rec, "assignment", &a)
	assert.Equal(t, 50.0, a.MaxGrade)
	assert.Equal(t, "Parser", a.Title)
}
