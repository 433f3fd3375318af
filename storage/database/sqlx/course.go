package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	q := psql.Insert("courses").
		Columns("id", "title", "description", "created_by", "created_at", "updated_at").
		Values(c.ID, c.Title, c.Description, c.CreatedBy, c.CreatedAt, c.UpdatedAt).
		Suffix("RETURNING *")

	var created course.Course
	if err := get(ctx, repo.db, &created, q); err != nil {
		return course.Course{}, errors.Wrap(badReference(err), "inserting course")
	}
	return created, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var c course.Course
	err := get(ctx, repo.db, &c, psql.Select("*").From("courses").Where(sq.Eq{"id": id}))
	return c, notFound(err, course.ErrNotFound)
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	q := psql.Select("*").From("courses").OrderBy("created_at DESC", "id")
	if filter.CreatedBy != "" {
		q = q.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.Search != "" {
		q = q.Where(ilike("title", filter.Search))
	}

	courses := make([]course.Course, 0)
	err := selectAll(ctx, repo.db, &courses, q)
	return courses, errors.Wrap(err, "selecting courses")
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	q := psql.Update("courses").
		Set("title", c.Title).
		Set("description", c.Description).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING *")

	var updated course.Course
	err := get(ctx, repo.db, &updated, q)
	return updated, notFound(err, course.ErrNotFound)
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	n, err := exec(ctx, repo.db, psql.Delete("courses").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n == 0 {
		return course.ErrNotFound
	}
	return nil
}
