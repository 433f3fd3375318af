package enrollment_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	"github.com/coursehub/backend/tests"
)

const unknownID = "0b7e1a54-2b56-4d0b-9d5e-0f3c1b2a3d4e"

func setup() (*enrollment.Service, testutil.Repos, *testutil.NotifierMock) {
	repos := testutil.NewRepos(inmemdb.Open())
	notifier := new(testutil.NotifierMock)
	return enrollment.NewService(repos.Enrollments, repos.Courses, notifier), repos, notifier
}

func TestService_Enroll(t *testing.T) {
	svc, repos, notifier := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)

	e, err := svc.Enroll(testutil.AsUser(ada), enrollment.NewEnrollment{CourseID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, ada.ID, e.StudentID)
	assert.Equal(t, enrollment.StatusActive, e.Status)

	notes := notifier.All()
	require.Len(t, notes, 1)
	assert.Equal(t, ada.ID, notes[0].UserID)
	assert.Equal(t, notification.TypeEnrollment, notes[0].Type)
	assert.Equal(t, `You have been enrolled in "Compilers".`, notes[0].Message)

	// duplicate
	_, err = svc.Enroll(ctx, enrollment.NewEnrollment{StudentID: ada.ID, CourseID: c.ID})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)
	assert.Len(t, notifier.All(), 1)

	rows, err := svc.Query(ctx, enrollment.QueryFilter{CourseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Compilers", rows[0].CourseTitle)
	assert.Equal(t, "Ada", rows[0].StudentName)
	assert.Equal(t, "ada@test.cd", rows[0].StudentEmail)

	// unknown course
	_, err = svc.Enroll(ctx, enrollment.NewEnrollment{StudentID: ada.ID, CourseID: unknownID})
	assert.True(t, core.IsNotFound(err))

	// unknown student
	_, err = svc.Enroll(ctx, enrollment.NewEnrollment{StudentID: unknownID, CourseID: c.ID})
	assert.ErrorIs(t, err, core.ErrInvalidReference)

	// anonymous, no student
	_, err = svc.Enroll(ctx, enrollment.NewEnrollment{CourseID: c.ID})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "student_id", vErr.Fields[0].Field)
}

func TestService_EnrollConcurrent(t *testing.T) {
	svc, repos, _ := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)

	const n = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		okCt int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Enroll(ctx, enrollment.NewEnrollment{StudentID: ada.ID, CourseID: c.ID})
			if err == nil {
				mu.Lock()
				okCt++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCt)
	rows, err := svc.Query(ctx, enrollment.QueryFilter{StudentID: ada.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestService_UnenrollReenroll(t *testing.T) {
	svc, repos, _ := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	first := testutil.CreateEnrollment(t, repos.Enrollments, ada.ID, c.ID, enrollment.StatusActive)

	e, err := svc.Unenroll(testutil.AsUser(ada), enrollment.NewEnrollment{CourseID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, e.ID)
	assert.Equal(t, enrollment.StatusDropped, e.Status)

	_, err = svc.Unenroll(testutil.AsUser(ada), enrollment.NewEnrollment{CourseID: c.ID})
	assert.ErrorIs(t, err, enrollment.ErrNotFound)

	ids, err := svc.ActiveStudentIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// enrolling again reactivates the same row
	e, err = svc.Enroll(testutil.AsUser(ada), enrollment.NewEnrollment{CourseID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, e.ID)
	assert.Equal(t, enrollment.StatusActive, e.Status)

	ids, err = svc.ActiveStudentIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ada.ID}, ids)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repos, _ := setup()
	ctx := context.Background()
	grace := testutil.CreateUser(t, repos.Users, "Grace", "grace@test.cd", core.RoleLecturer)
	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	bob := testutil.CreateUser(t, repos.Users, "Bob", "bob@test.cd", core.RoleStudent)
	c := testutil.CreateCourse(t, repos.Courses, "Compilers", grace.ID)
	e := testutil.CreateEnrollment(t, repos.Enrollments, ada.ID, c.ID, enrollment.StatusActive)
	testutil.CreateEnrollment(t, repos.Enrollments, bob.ID, c.ID, enrollment.StatusActive)

	e, err := svc.UpdateStatus(ctx, enrollment.UpdateStatus{ID: e.ID, Status: enrollment.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)

	rows, err := svc.Query(ctx, enrollment.QueryFilter{CourseID: c.ID, Status: enrollment.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ada.ID, rows[0].StudentID)

	_, err = svc.UpdateStatus(ctx, enrollment.UpdateStatus{ID: unknownID, Status: enrollment.StatusDropped})
	assert.True(t, core.IsNotFound(err))
}

func TestUpdateStatus_Validate(t *testing.T) {
	validate := testutil.NewValidator()
	tests := []struct {
		name    string
		us      enrollment.UpdateStatus
		wantErr bool
	}{
		{name: "ok", us: enrollment.UpdateStatus{ID: unknownID, Status: " Completed "}},
		{name: "unknown status", us: enrollment.UpdateStatus{ID: unknownID, Status: "paused"}, wantErr: true},
		{name: "bad id", us: enrollment.UpdateStatus{ID: "1", Status: "active"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.us.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}
