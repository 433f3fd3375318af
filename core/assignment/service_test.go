package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	logsvc "github.com/coursehub/backend/services/logger"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	"github.com/coursehub/backend/tests"
)

const unknownID = "0b7e1a54-2b56-4d0b-9d5e-0f3c1b2a3d4e"

func setup() (*assignment.Service, testutil.Repos, *testutil.NotifierMock) {
	repos := testutil.NewRepos(inmemdb.Open())
	notifier := new(testutil.NotifierMock)
	enrollments := enrollment.NewService(repos.Enrollments, repos.Courses, notifier)
	svc := assignment.NewService(repos.Assignments, repos.Courses, enrollments, notifier, logsvc.NewNopLogger())
	return svc, repos, notifier
}

func TestService_Create(t *testing.T) {
	svc, repos, notifier := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)

	var active []string
	for _, name := range []string{"Ada", "Bob", "Cy"} {
		usr := testutil.CreateUser(t, repos.Users, name, name+"@test.cd", core.RoleStudent)
		testutil.CreateEnrollment(t, repos.Enrollments, usr.ID, c.ID, enrollment.StatusActive)
		active = append(active, usr.ID)
	}
	dropped := testutil.CreateUser(t, repos.Users, "Dee", "dee@test.cd", core.RoleStudent)
	testutil.CreateEnrollment(t, repos.Enrollments, dropped.ID, c.ID, enrollment.StatusDropped)

	due := time.Date(2030, 1, 31, 23, 59, 0, 0, time.UTC)
	a, err := svc.Create(ctx, assignment.NewAssignment{CourseID: c.ID, Title: "Parser", DueDate: due, MaxGrade: 20})
	require.NoError(t, err)
	assert.Equal(t, c.ID, a.CourseID)
	assert.Equal(t, due, a.DueDate)
	assert.Equal(t, float64(20), a.MaxGrade)

	// one batch for the whole class
	batches := notifier.Batches()
	require.Len(t, batches, 1)
	var got []string
	for _, n := range batches[0] {
		assert.Equal(t, notification.TypeAssignment, n.Type)
		assert.Equal(t, "New Assignment", n.Title)
		assert.Contains(t, n.Message, "Parser")
		assert.Contains(t, n.Message, "Jan 31, 2030")
		got = append(got, n.UserID)
	}
	assert.ElementsMatch(t, active, got)

	// no students, no batch
	empty := testutil.CreateCourse(t, repos.Courses, "Empty", grace.ID)
	_, err = svc.Create(ctx, assignment.NewAssignment{CourseID: empty.ID, Title: "Solo", DueDate: due, MaxGrade: 10})
	require.NoError(t, err)
	assert.Len(t, notifier.Batches(), 1)

	_, err = svc.Create(ctx, assignment.NewAssignment{CourseID: unknownID, Title: "Ghost", DueDate: due, MaxGrade: 10})
	assert.True(t, core.IsNotFound(err))
}

func TestService_QueryUpdateDelete(t *testing.T) {
	svc, repos, _ := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	other := testutil.CreateCourse(t, repos.Courses, "Databases", grace.ID)

	now := time.Now().UTC().Truncate(time.Second)
	late := testutil.CreateAssignment(t, repos.Assignments, c.ID, "Codegen", 100, now.Add(48*time.Hour))
	soon := testutil.CreateAssignment(t, repos.Assignments, c.ID, "Lexer", 100, now.Add(24*time.Hour))
	testutil.CreateAssignment(t, repos.Assignments, other.ID, "SQL", 100, now)

	got, err := svc.Query(ctx, assignment.QueryFilter{CourseID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, []assignment.Assignment{soon, late}, got)

	maxGrade := 50.0
	title := "Code generation"
	updated, err := svc.Update(ctx, assignment.UpdateAssignment{ID: late.ID, Title: &title, MaxGrade: &maxGrade})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, maxGrade, updated.MaxGrade)
	assert.Equal(t, late.DueDate, updated.DueDate)

	_, err = svc.Update(ctx, assignment.UpdateAssignment{ID: unknownID, Title: &title})
	assert.ErrorIs(t, err, assignment.ErrNotFound)

	// delete cascades to submissions
	sub := testutil.CreateSubmission(t, repos.Submissions, soon.ID, ada.ID, "my lexer")
	require.NoError(t, svc.Delete(ctx, soon.ID))
	_, err = svc.GetByID(ctx, soon.ID)
	assert.ErrorIs(t, err, assignment.ErrNotFound)
	_, err = repos.Submissions.GetSubmission(ctx, sub.ID)
	assert.ErrorIs(t, err, submission.ErrNotFound)

	assert.True(t, core.IsNotFound(svc.Delete(ctx, soon.ID)))
}

func TestService_UpdateMaxGradeBelowGrades(t *testing.T) {
	svc, repos, _ := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	a := testutil.CreateAssignment(t, repos.Assignments, c.ID, "Lexer", 100, time.Now().Add(time.Hour))
	sub := testutil.CreateSubmission(t, repos.Submissions, a.ID, ada.ID, "my lexer")
	testutil.GradeSubmission(t, repos.Submissions, sub.ID, 90, grace.ID)

	tooLow := 10.0
	_, err := svc.Update(ctx, assignment.UpdateAssignment{ID: a.ID, MaxGrade: &tooLow})
	assert.ErrorIs(t, err, assignment.ErrGradeAboveMax)
	var verr *core.ValidationError
	if assert.ErrorAs(t, err, &verr) && assert.Len(t, verr.Fields, 1) {
		assert.Equal(t, "max_grade", verr.Fields[0].Field)
	}

	stored, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), stored.MaxGrade)

	exact := 90.0
	updated, err := svc.Update(ctx, assignment.UpdateAssignment{ID: a.ID, MaxGrade: &exact})
	require.NoError(t, err)
	assert.Equal(t, exact, updated.MaxGrade)
}

func TestUpdateAssignment_Validate(t *testing.T) {
	ua := assignment.UpdateAssignment{ID: " 0B7E1A54-2B56-4D0B-9D5E-0F3C1B2A3D4E "}
	require.NoError(t, ua.Validate(testutil.NewValidator()))
	assert.Equal(t, unknownID, ua.ID)
}

func TestNewAssignment_Validate(t *testing.T) {
	validate := testutil.NewValidator()
	due := time.Now().Add(time.Hour)
	tests := []struct {
		name    string
		na      assignment.NewAssignment
		wantErr bool
	}{
		{name: "ok", na: assignment.NewAssignment{CourseID: unknownID, Title: "Lexer", DueDate: due, MaxGrade: 100}},
		{name: "no due date", na: assignment.NewAssignment{CourseID: unknownID, Title: "Lexer", MaxGrade: 100}, wantErr: true},
		{name: "zero max grade", na: assignment.NewAssignment{CourseID: unknownID, Title: "Lexer", DueDate: due}, wantErr: true},
		{name: "negative max grade", na: assignment.NewAssignment{CourseID: unknownID, Title: "Lexer", DueDate: due, MaxGrade: -1}, wantErr: true},
		{name: "blank title", na: assignment.NewAssignment{CourseID: unknownID, Title: " ", DueDate: due, MaxGrade: 100}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.na.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}
