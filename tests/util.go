package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/core/user"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
)

type Repos struct {
	Users         user.Repository
	Courses       course.Repository
	Enrollments   enrollment.Repository
	Assignments   assignment.Repository
	Submissions   submission.Repository
	Notifications notification.Repository
	Analytics     analytics.Repository
}

func NewRepos(db *inmemdb.DB) Repos {
	return Repos{
		Users:         inmemdb.NewUserRepository(db),
		Courses:       inmemdb.NewCourseRepository(db),
		Enrollments:   inmemdb.NewEnrollmentRepository(db),
		Assignments:   inmemdb.NewAssignmentRepository(db),
		Submissions:   inmemdb.NewSubmissionRepository(db),
		Notifications: inmemdb.NewNotificationRepository(db),
		Analytics:     inmemdb.NewAnalyticsRepository(db),
	}
}

func NewValidator() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

// AsUser returns a context carrying usr as the caller.
func AsUser(usr user.User) context.Context {
	return core.WithIdentity(context.Background(), core.Identity{UserID: usr.ID, Email: usr.Email, Role: usr.Role})
}

func tstamp(ts []time.Time) time.Time {
	if len(ts) > 0 {
		return ts[0].UTC()
	}
	return time.Now().UTC()
}

func CreateUser(t *testing.T, repo user.Repository, name, email, role string, createdAt ...time.Time) user.User {
	t.Helper()
	ts := tstamp(createdAt)
	usr, err := repo.CreateUser(context.Background(), user.User{
		ID:        uuid.New().String(),
		Email:     email,
		FullName:  name,
		Role:      role,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, title, createdBy string, createdAt ...time.Time) course.Course {
	t.Helper()
	ts := tstamp(createdAt)
	c, err := repo.CreateCourse(context.Background(), course.Course{
		ID:          uuid.New().String(),
		Title:       title,
		Description: title + " description",
		CreatedBy:   createdBy,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateEnrollment(t *testing.T, repo enrollment.Repository, studentID, courseID, status string, enrolledAt ...time.Time) enrollment.Enrollment {
	t.Helper()
	e, err := repo.Enroll(context.Background(), enrollment.Enrollment{
		ID:         uuid.New().String(),
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     enrollment.StatusActive,
		EnrolledAt: tstamp(enrolledAt),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	if status != enrollment.StatusActive {
		if e, err = repo.SetStatus(context.Background(), e.ID, status); err != nil {
			t.Fatalf("CreateEnrollment() failed: %v", err)
		}
	}
	return e
}

func CreateAssignment(t *testing.T, repo assignment.Repository, courseID, title string, maxGrade float64, dueDate time.Time) assignment.Assignment {
	t.Helper()
	now := time.Now().UTC()
	a, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Title:     title,
		DueDate:   dueDate.UTC(),
		MaxGrade:  maxGrade,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateSubmission(t *testing.T, repo submission.Repository, assignmentID, studentID, content string, submittedAt ...time.Time) submission.Submission {
	t.Helper()
	ts := tstamp(submittedAt)
	s, err := repo.CreateSubmission(context.Background(), submission.Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		SubmittedAt:  ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return s
}

func GradeSubmission(t *testing.T, repo submission.Repository, id string, grade float64, gradedBy string) submission.Submission {
	t.Helper()
	s, err := repo.GradeSubmission(context.Background(), id, submission.Grade{
		Grade:    grade,
		GradedBy: null.StringFrom(gradedBy),
		GradedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("GradeSubmission() failed: %v", err)
	}
	return s
}

// NotifierMock records every batch it is handed.
type NotifierMock struct {
	mu      sync.Mutex
	batches [][]notification.NewNotification
}

var _ notification.Notifier = (*NotifierMock)(nil)

func (n *NotifierMock) Notify(_ context.Context, notes ...notification.NewNotification) {
	if len(notes) == 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, notes)
}

func (n *NotifierMock) Batches() [][]notification.NewNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]notification.NewNotification(nil), n.batches...)
}

// All flattens every batch.
func (n *NotifierMock) All() []notification.NewNotification {
	var all []notification.NewNotification
	for _, b := range n.Batches() {
		all = append(all, b...)
	}
	return all
}
