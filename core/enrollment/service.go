package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/notification"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("enrollment not found")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")

	errStudentRequired = "this field is required"
)

type Repository interface {
	// Enroll inserts e, or reactivates the dropped/completed enrollment of the same
	// (student, course) pair, in one statement. It returns ErrAlreadyEnrolled when
	// the pair is already active.
	Enroll(ctx context.Context, e Enrollment) (Enrollment, error)
	GetEnrollment(ctx context.Context, id string) (Enrollment, error)
	SetStatus(ctx context.Context, id, status string) (Enrollment, error)
	// Unenroll drops the active enrollment of the (student, course) pair.
	Unenroll(ctx context.Context, studentID, courseID string) (Enrollment, error)
	// QueryEnrollments returns enrollments ordered by enrolled_at, newest first.
	QueryEnrollments(ctx context.Context, filter QueryFilter) ([]Detail, error)
}

// CourseFinder is the part of the course store needed here.
type CourseFinder interface {
	GetCourse(ctx context.Context, id string) (course.Course, error)
}

type Service struct {
	repo     Repository
	courses  CourseFinder
	notifier notification.Notifier
}

func NewService(repo Repository, courses CourseFinder, notifier notification.Notifier) *Service {
	return &Service{repo: repo, courses: courses, notifier: notifier}
}

func (svc *Service) studentID(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = core.IdentityFrom(ctx).UserID
	}
	if id == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errStudentRequired})
	}
	return id, nil
}

func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	studentID, err := svc.studentID(ctx, ne.StudentID)
	if err != nil {
		return Enrollment{}, err
	}
	c, err := svc.courses.GetCourse(ctx, ne.CourseID)
	if err != nil {
		return Enrollment{}, err
	}

	e, err := svc.repo.Enroll(ctx, Enrollment{
		ID:         uuid.New().String(),
		StudentID:  studentID,
		CourseID:   c.ID,
		Status:     StatusActive,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled)
		}
		return Enrollment{}, errors.Wrap(err, "enrolling student")
	}

	svc.notifier.Notify(ctx, notification.NewNotification{
		UserID:  e.StudentID,
		Type:    notification.TypeEnrollment,
		Title:   "Enrollment Confirmed",
		Message: fmt.Sprintf("You have been enrolled in %q.", c.Title),
	})
	return e, nil
}

func (svc *Service) Unenroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	studentID, err := svc.studentID(ctx, ne.StudentID)
	if err != nil {
		return Enrollment{}, err
	}
	return svc.repo.Unenroll(ctx, studentID, ne.CourseID)
}

func (svc *Service) UpdateStatus(ctx context.Context, us UpdateStatus) (Enrollment, error) {
	return svc.repo.SetStatus(ctx, us.ID, us.Status)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Detail, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}

// ActiveStudentIDs lists the students actively enrolled in a course.
func (svc *Service) ActiveStudentIDs(ctx context.Context, courseID string) ([]string, error) {
	enrollments, err := svc.repo.QueryEnrollments(ctx, QueryFilter{CourseID: courseID, Status: StatusActive})
	if err != nil {
		return nil, errors.Wrap(err, "querying active enrollments")
	}
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	return ids, nil
}
