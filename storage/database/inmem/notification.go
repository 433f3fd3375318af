package inmemdb

import (
	"context"
	"sort"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotifications(_ context.Context, notes ...notification.Notification) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	// all or nothing
	for _, n := range notes {
		if _, ok := repo.db.users[n.UserID]; !ok {
			return core.ErrInvalidReference
		}
	}
	for i := range notes {
		n := notes[i]
		repo.db.notifications[n.ID] = &n
	}
	return nil
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]notification.Notification, 0)
	for _, n := range repo.db.notifications {
		if n.UserID != filter.UserID || (filter.UnreadOnly && n.Read) {
			continue
		}
		notes = append(notes, *n)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (repo *notificationRepository) MarkAsRead(_ context.Context, id string) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	n.Read = true
	return *n, nil
}

func (repo *notificationRepository) MarkAllAsRead(_ context.Context, userID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var count int
	for _, n := range repo.db.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (repo *notificationRepository) DeleteNotification(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.notifications[id]; !ok {
		return notification.ErrNotFound
	}
	delete(repo.db.notifications, id)
	return nil
}
