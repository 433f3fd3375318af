package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/storage/database"
)

// psql builds postgres statements ($n placeholders).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func get(ctx context.Context, db *sqlx.DB, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.GetContext(ctx, dest, q, args...)
}

func selectAll(ctx context.Context, db *sqlx.DB, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.SelectContext(ctx, dest, q, args...)
}

func exec(ctx context.Context, db *sqlx.DB, b sq.Sqlizer) (int64, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// notFound maps sql.ErrNoRows to errNotFound.
func notFound(err, errNotFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return err
}

// badReference maps foreign key violations to core.ErrInvalidReference.
func badReference(err error) error {
	if database.IsForeignKeyViolation(err) {
		return core.ErrInvalidReference
	}
	return err
}

func ilike(col, search string) sq.ILike {
	return sq.ILike{col: "%" + search + "%"}
}
