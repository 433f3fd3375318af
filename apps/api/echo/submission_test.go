package echoapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/tests"
)

func Test_submissionAndGradingFunctions(t *testing.T) {
	app, repos := setup(t)
	ctx := context.Background()

	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	a := testutil.CreateAssignment(t, repos.Assignments, c.ID, "Parser", 100, time.Now().Add(24*time.Hour))
	adaToken := getToken(t, ada)
	graceToken := getToken(t, grace)

	// submit
	rec := call(t, app, "submission-service", adaToken, "create_submission", map[string]string{
		"assignment_id": a.ID,
		"content":       "my parser",
		"file_url":      "https://files.test.cd/parser.zip",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s submission.Submission
	decodeInto(t, rec, "submission", &s)
	assert.Equal(t, ada.ID, s.StudentID)
	assert.Equal(t, "https://files.test.cd/parser.zip", s.FileURL.String)
	assert.False(t, s.Grade.Valid)

	notes, err := repos.Notifications.QueryNotifications(ctx, notification.QueryFilter{UserID: grace.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "New Submission", notes[0].Title)

	runTests(t, app, "submission-service", []httpTest{
		{
			name: "duplicate", action: "create_submission", token: adaToken,
			data:     map[string]string{"assignment_id": a.ID, "content": "again"},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "assignment already submitted"}),
		},
		{
			name: "bad file_url", action: "create_submission", token: adaToken,
			data:     map[string]string{"assignment_id": a.ID, "content": "again", "file_url": "nope"},
			wantCode: http.StatusBadRequest,
		},
	})

	// update while ungraded
	rec = call(t, app, "submission-service", adaToken, "update_submission", map[string]string{"submission_id": s.ID, "content": "v2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeInto(t, rec, "submission", &s)
	assert.Equal(t, "v2", s.Content)

	// grade
	runTests(t, app, "grading-service", []httpTest{
		{
			name: "grade too high", action: "grade_submission", token: graceToken,
			data:     map[string]interface{}{"submission_id": s.ID, "grade": 101},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "grade must be between 0 and 100",
				Fields: map[string]string{"grade": "grade must be between 0 and 100"},
			}),
		},
		{
			name: "negative grade", action: "grade_submission", token: graceToken,
			data:     map[string]interface{}{"submission_id": s.ID, "grade": -5},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "grade missing", action: "grade_submission", token: graceToken,
			data:     map[string]interface{}{"submission_id": s.ID},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid data", Fields: map[string]string{"grade": "this field is required"}}),
		},
	})

	rec = call(t, app, "grading-service", graceToken, "grade_submission", map[string]interface{}{
		"submission_id": s.ID,
		"grade":         88,
		"feedback":      "Solid",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeInto(t, rec, "submission", &s)
	assert.Equal(t, 88.0, s.Grade.Float64)
	assert.Equal(t, "Solid", s.Feedback.String)
	assert.Equal(t, grace.ID, s.GradedBy.String)

	notes, err = repos.Notifications.QueryNotifications(ctx, notification.QueryFilter{UserID: ada.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, `Your submission for "Parser" has been graded: 88/100`, notes[0].Message)

	// graded is frozen
	runTests(t, app, "submission-service", []httpTest{
		{
			name: "update graded", action: "update_submission", token: adaToken,
			data:     map[string]string{"submission_id": s.ID, "content": "v3"},
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "cannot update a graded submission"}),
		},
	})

	rec = call(t, app, "grading-service", adaToken, "get_student_grades", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grades []submission.Detail
	decodeInto(t, rec, "grades", &grades)
	require.Len(t, grades, 1)
	assert.Equal(t, "Parser", grades[0].AssignmentTitle)

	rec = call(t, app, "grading-service", graceToken, "get_assignment_grades", map[string]string{"assignment_id": a.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary map[string]interface{}
	decodeInto(t, rec, "summary", &summary)
	assert.Equal(t, map[string]interface{}{
		"assignment_id":      a.ID,
		"total_submissions":  1.0,
		"graded_submissions": 1.0,
		"average_grade":      88.0,
	}, summary)

	rec = call(t, app, "submission-service", "", "get_submission", map[string]string{"submission_id": s.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var d submission.Detail
	decodeInto(t, rec, "submission", &d)
	assert.Equal(t, c.ID, d.CourseID)
	assert.Equal(t, "Ada", d.StudentName)
}
