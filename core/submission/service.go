package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/notification"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("submission not found")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	ErrAlreadyGraded    = errors.New("cannot update a graded submission")

	errStudentRequired = "this field is required"
)

type Repository interface {
	// CreateSubmission returns ErrAlreadySubmitted when the (student, assignment) pair exists.
	CreateSubmission(ctx context.Context, s Submission) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Detail, error)
	// UpdateSubmission only touches ungraded rows; it returns ErrAlreadyGraded otherwise.
	UpdateSubmission(ctx context.Context, s Submission) (Submission, error)
	GradeSubmission(ctx context.Context, id string, g Grade) (Submission, error)
	// QuerySubmissions returns submissions ordered by submitted_at, newest first.
	QuerySubmissions(ctx context.Context, filter QueryFilter) ([]Detail, error)
}

type AssignmentFinder interface {
	GetAssignment(ctx context.Context, id string) (assignment.Assignment, error)
}

type CourseFinder interface {
	GetCourse(ctx context.Context, id string) (course.Course, error)
}

type Service struct {
	repo        Repository
	assignments AssignmentFinder
	courses     CourseFinder
	notifier    notification.Notifier
}

func NewService(repo Repository, assignments AssignmentFinder, courses CourseFinder, notifier notification.Notifier) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
		courses:     courses,
		notifier:    notifier,
	}
}

func (svc *Service) Create(ctx context.Context, ns NewSubmission) (Submission, error) {
	if ns.StudentID == "" {
		ns.StudentID = core.IdentityFrom(ctx).UserID
	}
	if ns.StudentID == "" {
		return Submission{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errStudentRequired})
	}
	a, err := svc.assignments.GetAssignment(ctx, ns.AssignmentID)
	if err != nil {
		return Submission{}, err
	}

	now := time.Now().UTC()
	s := Submission{
		ID:           uuid.New().String(),
		AssignmentID: a.ID,
		StudentID:    ns.StudentID,
		Content:      ns.Content,
		FileURL:      null.StringFromPtr(ns.FileURL),
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
	s, err = svc.repo.CreateSubmission(ctx, s)
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return Submission{}, core.NewValidationError(ErrAlreadySubmitted)
		}
		return Submission{}, errors.Wrap(err, "creating submission")
	}

	// the course creator is told about it
	if c, err := svc.courses.GetCourse(ctx, a.CourseID); err == nil {
		svc.notifier.Notify(ctx, notification.NewNotification{
			UserID:  c.CreatedBy,
			Type:    notification.TypeSubmission,
			Title:   "New Submission",
			Message: fmt.Sprintf("A new submission was received for %q in %q.", a.Title, c.Title),
		})
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, us UpdateSubmission) (Submission, error) {
	d, err := svc.repo.GetSubmission(ctx, us.ID)
	if err != nil {
		return Submission{}, err
	}
	s := d.Submission
	if s.IsGraded() {
		return Submission{}, core.NewValidationError(ErrAlreadyGraded)
	}
	us.apply(&s)
	s.UpdatedAt = time.Now().UTC()

	s, err = svc.repo.UpdateSubmission(ctx, s)
	if err != nil {
		if errors.Is(err, ErrAlreadyGraded) { // graded in between
			return Submission{}, core.NewValidationError(ErrAlreadyGraded)
		}
		return Submission{}, errors.Wrap(err, "updating submission")
	}
	return s, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	return svc.repo.GetSubmission(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Detail, error) {
	return svc.repo.QuerySubmissions(ctx, filter)
}
