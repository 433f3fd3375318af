package course

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("course not found")

	errCreatorRequired = "this field is required"
)

type Repository interface {
	CreateCourse(ctx context.Context, c Course) (Course, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	// QueryCourses returns courses ordered by created_at, newest first.
	QueryCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
	UpdateCourse(ctx context.Context, c Course) (Course, error)
	// DeleteCourse also removes the course's enrollments, assignments and submissions.
	DeleteCourse(ctx context.Context, id string) error
}

type Service struct {
	repo     Repository
	notifier notification.Notifier
}

func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if nc.CreatedBy == "" {
		nc.CreatedBy = core.IdentityFrom(ctx).UserID
	}
	if nc.CreatedBy == "" {
		return Course{}, core.NewValidationError(nil, core.FieldError{Field: "created_by", Error: errCreatorRequired})
	}

	now := time.Now().UTC()
	c, err := svc.repo.CreateCourse(ctx, Course{
		ID:          uuid.New().String(),
		Title:       nc.Title,
		Description: nc.Description,
		CreatedBy:   nc.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}

	svc.notifier.Notify(ctx, notification.NewNotification{
		UserID:  c.CreatedBy,
		Type:    notification.TypeCourse,
		Title:   "Course Created",
		Message: fmt.Sprintf("Your course %q has been created successfully.", c.Title),
	})
	return c, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryCourses(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, uc UpdateCourse) (Course, error) {
	c, err := svc.repo.GetCourse(ctx, uc.ID)
	if err != nil {
		return Course{}, err
	}
	uc.apply(&c)
	c.UpdatedAt = time.Now().UTC()

	c, err = svc.repo.UpdateCourse(ctx, c)
	if err != nil {
		return Course{}, errors.Wrap(err, "updating course")
	}
	return c, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetCourse(ctx, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteCourse(ctx, id), "deleting course")
}
