package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/tests"
)

func Test_enrollmentFunctions(t *testing.T) {
	app, repos := setup(t)
	ctx := context.Background()

	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	adaToken := getToken(t, ada)

	rec := call(t, app, "enrollment-service", adaToken, "enroll_student", map[string]string{"course_id": c.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var e enrollment.Enrollment
	decodeInto(t, rec, "enrollment", &e)
	assert.Equal(t, ada.ID, e.StudentID)
	assert.Equal(t, enrollment.StatusActive, e.Status)

	notes, err := repos.Notifications.QueryNotifications(ctx, notification.QueryFilter{UserID: ada.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Enrollment Confirmed", notes[0].Title)

	runTests(t, app, "enrollment-service", []httpTest{
		{
			name: "duplicate", action: "enroll_student", token: adaToken,
			data:     map[string]string{"course_id": c.ID},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "student is already enrolled in this course"}),
		},
		{
			name: "duplicate with explicit student", action: "enroll_student",
			data:     map[string]string{"course_id": c.ID, "student_id": ada.ID},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "student is already enrolled in this course"}),
		},
		{
			name: "bad status", action: "update_enrollment_status",
			data:     map[string]string{"enrollment_id": e.ID, "status": "paused"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "invalid data",
				Fields: map[string]string{"status": "status must be one of active, dropped or completed"},
			}),
		},
	})

	// still one row
	rows, err := repos.Enrollments.QueryEnrollments(ctx, enrollment.QueryFilter{CourseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rec = call(t, app, "enrollment-service", "", "get_enrollments", map[string]string{"course_id": c.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []enrollment.Detail
	decodeInto(t, rec, "enrollments", &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Compilers", listed[0].CourseTitle)
	assert.Equal(t, "Ada", listed[0].StudentName)

	// drop, then re-enroll
	rec = call(t, app, "enrollment-service", adaToken, "unenroll_student", map[string]string{"course_id": c.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeInto(t, rec, "enrollment", &e)
	assert.Equal(t, enrollment.StatusDropped, e.Status)

	rec = call(t, app, "enrollment-service", adaToken, "enroll_student", map[string]string{"course_id": c.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var again enrollment.Enrollment
	decodeInto(t, rec, "enrollment", &again)
	assert.Equal(t, e.ID, again.ID)
	assert.Equal(t, enrollment.StatusActive, again.Status)

	rec = call(t, app, "enrollment-service", "", "update_enrollment_status", map[string]string{"enrollment_id": e.ID, "status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeInto(t, rec, "enrollment", &e)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)
}
