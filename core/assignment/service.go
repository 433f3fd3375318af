package assignment

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
	ErrNotFound = core.NewNotFoundError("assignment not found")
	// ErrGradeAboveMax is returned when a new max grade is below a grade already given.
	ErrGradeAboveMax = errors.New("max_grade is below an existing grade")
)

type Repository interface {
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	// QueryAssignments returns assignments ordered by due_date, earliest first.
	QueryAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
	// UpdateAssignment returns ErrGradeAboveMax, without writing, when a graded
	// submission of the assignment exceeds a.MaxGrade.
	UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	// DeleteAssignment also removes the assignment's submissions.
	DeleteAssignment(ctx context.Context, id string) error
}

type CourseFinder interface {
	GetCourse(ctx context.Context, id string) (course.Course, error)
}

// StudentFinder lists who gets notified about a new assignment.
type StudentFinder interface {
	ActiveStudentIDs(ctx context.Context, courseID string) ([]string, error)
}

type Service struct {
	repo     Repository
	courses  CourseFinder
	students StudentFinder
	notifier notification.Notifier
	logger   core.Logger
}

func NewService(
	repo Repository,
	courses CourseFinder,
	students StudentFinder,
	notifier notification.Notifier,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		courses:  courses,
		students: students,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	c, err := svc.courses.GetCourse(ctx, na.CourseID)
	if err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	a, err := svc.repo.CreateAssignment(ctx, Assignment{
		ID:          uuid.New().String(),
		CourseID:    c.ID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		MaxGrade:    na.MaxGrade,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}

	svc.notifyStudents(ctx, c, a)
	return a, nil
}

// notifyStudents hands one batch covering every active student to the notifier.
func (svc *Service) notifyStudents(ctx context.Context, c course.Course, a Assignment) {
	ids, err := svc.students.ActiveStudentIDs(ctx, c.ID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("assignment %s: finding students to notify: %v", a.ID, err), err)
		return
	}
	notes := make([]notification.NewNotification, 0, len(ids))
	msg := fmt.Sprintf("A new assignment %q was posted in %q. Due %s.", a.Title, c.Title, a.DueDate.Format("Jan 2, 2006 15:04 MST"))
	for _, id := range ids {
		notes = append(notes, notification.NewNotification{
			UserID:  id,
			Type:    notification.TypeAssignment,
			Title:   "New Assignment",
			Message: msg,
		})
	}
	svc.notifier.Notify(ctx, notes...)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, ua UpdateAssignment) (Assignment, error) {
	a, err := svc.repo.GetAssignment(ctx, ua.ID)
	if err != nil {
		return Assignment{}, err
	}
	ua.apply(&a)
	a.UpdatedAt = time.Now().UTC()

	a, err = svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		if errors.Is(err, ErrGradeAboveMax) {
			return Assignment{}, core.NewValidationError(ErrGradeAboveMax,
				core.FieldError{Field: "max_grade", Error: ErrGradeAboveMax.Error()})
		}
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetAssignment(ctx, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteAssignment(ctx, id), "deleting assignment")
}
