package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
)

type analyticsRepository struct {
	db *sqlx.DB
}

var _ analytics.Repository = (*analyticsRepository)(nil)

func NewAnalyticsRepository(db *sqlx.DB) analytics.Repository {
	return &analyticsRepository{db: db}
}

func count(table, alias string, where ...sq.Sqlizer) sq.Sqlizer {
	// subqueries keep "?" placeholders; the outer builder numbers them
	sub := sq.Select("count(*)").From(table)
	for _, w := range where {
		sub = sub.Where(w)
	}
	return sq.Alias(sub, alias)
}

// SystemMetrics counts every table in a single round trip.
func (repo *analyticsRepository) SystemMetrics(ctx context.Context) (analytics.SystemMetrics, error) {
	q := psql.Select().
		Column(count("courses", "total_courses")).
		Column(count("users", "total_students", sq.Eq{"role": core.RoleStudent})).
		Column(count("users", "total_lecturers", sq.Eq{"role": core.RoleLecturer})).
		Column(count("assignments", "total_assignments")).
		Column(count("submissions", "total_submissions")).
		Column(count("enrollments", "total_enrollments"))

	var m analytics.SystemMetrics
	err := get(ctx, repo.db, &m, q)
	return m, errors.Wrap(err, "counting rows")
}
