package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := psql.Insert("assignments").
		Columns("id", "course_id", "title", "description", "due_date", "max_grade", "created_at", "updated_at").
		Values(a.ID, a.CourseID, a.Title, a.Description, a.DueDate, a.MaxGrade, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING *")

	var created assignment.Assignment
	if err := get(ctx, repo.db, &created, q); err != nil {
		return assignment.Assignment{}, errors.Wrap(badReference(err), "inserting assignment")
	}
	return created, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := get(ctx, repo.db, &a, psql.Select("*").From("assignments").Where(sq.Eq{"id": id}))
	return a, notFound(err, assignment.ErrNotFound)
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	q := psql.Select("*").From("assignments").OrderBy("due_date", "id")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}

	assignments := make([]assignment.Assignment, 0)
	err := selectAll(ctx, repo.db, &assignments, q)
	return assignments, errors.Wrap(err, "selecting assignments")
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := psql.Update("assignments").
		SetMap(map[string]interface{}{
			"title":       a.Title,
			"description": a.Description,
			"due_date":    a.DueDate,
			"max_grade":   a.MaxGrade,
			"updated_at":  a.UpdatedAt,
		}).
		Where(sq.Eq{"id": a.ID}).
		Where("NOT EXISTS (SELECT 1 FROM submissions WHERE assignment_id = ? AND grade > ?)", a.ID, a.MaxGrade).
		Suffix("RETURNING *")

	var updated assignment.Assignment
	err := get(ctx, repo.db, &updated, q)
	if !errors.Is(err, sql.ErrNoRows) {
		return updated, err
	}

	// no row: either it is gone or a grade is above the new max
	var exists bool
	if err = repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM assignments WHERE id = $1)", a.ID); err != nil {
		return updated, errors.Wrap(err, "checking assignment")
	}
	if exists {
		return updated, assignment.ErrGradeAboveMax
	}
	return updated, assignment.ErrNotFound
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	n, err := exec(ctx, repo.db, psql.Delete("assignments").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}
