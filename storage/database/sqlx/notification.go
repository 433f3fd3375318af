package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// CreateNotifications writes the whole batch with one multi-row INSERT.
// insertChunkSize keeps each INSERT well below postgres' 65535 bind parameters.
const insertChunkSize = 1000

// CreateNotifications inserts notes in chunks within one transaction: all or nothing.
func (repo *notificationRepository) CreateNotifications(ctx context.Context, notes ...notification.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(notes); start += insertChunkSize {
		end := min(start+insertChunkSize, len(notes))
		q := psql.Insert("notifications").
			Columns("id", "user_id", "type", "title", "message", "read", "created_at")
		for _, n := range notes[start:end] {
			q = q.Values(n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return errors.Wrap(err, "building query")
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(badReference(err), "inserting notifications %d-%d", start, end)
		}
	}
	return errors.Wrap(tx.Commit(), "committing notifications")
}

func (repo *notificationRepository) QueryNotifications(ctx context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	q := psql.Select("*").
		From("notifications").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC", "id")
	if filter.UnreadOnly {
		q = q.Where(sq.Eq{"read": false})
	}

	notes := make([]notification.Notification, 0)
	err := selectAll(ctx, repo.db, &notes, q)
	return notes, errors.Wrap(err, "selecting notifications")
}

func (repo *notificationRepository) MarkAsRead(ctx context.Context, id string) (notification.Notification, error) {
	q := psql.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING *")

	var n notification.Notification
	err := get(ctx, repo.db, &n, q)
	return n, notFound(err, notification.ErrNotFound)
}

func (repo *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	n, err := exec(ctx, repo.db, psql.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"user_id": userID, "read": false}))
	if err != nil {
		return 0, errors.Wrap(err, "marking notifications as read")
	}
	return int(n), nil
}

func (repo *notificationRepository) DeleteNotification(ctx context.Context, id string) error {
	n, err := exec(ctx, repo.db, psql.Delete("notifications").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}
