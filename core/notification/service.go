package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
)

var ErrNotFound = core.NewNotFoundError("notification not found")

type Repository interface {
	// CreateNotifications inserts all notes with a single statement.
	CreateNotifications(ctx context.Context, notes ...Notification) error
	QueryNotifications(ctx context.Context, filter QueryFilter) ([]Notification, error)
	MarkAsRead(ctx context.Context, id string) (Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
	DeleteNotification(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func build(nn NewNotification, now time.Time) Notification {
	return Notification{
		ID:        uuid.New().String(),
		UserID:    nn.UserID,
		Type:      nn.Type,
		Title:     nn.Title,
		Message:   nn.Message,
		CreatedAt: now,
	}
}

// Send stores a single notification synchronously.
func (svc *Service) Send(ctx context.Context, nn NewNotification) (Notification, error) {
	note := build(nn, time.Now().UTC())
	if err := svc.repo.CreateNotifications(ctx, note); err != nil {
		return Notification{}, errors.Wrap(err, "creating notification")
	}
	return note, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, filter)
}

func (svc *Service) MarkAsRead(ctx context.Context, id string) (Notification, error) {
	return svc.repo.MarkAsRead(ctx, id)
}

func (svc *Service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return svc.repo.MarkAllAsRead(ctx, userID)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNotification(ctx, id)
}
