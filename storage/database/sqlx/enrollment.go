package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/enrollment"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

// Enroll relies on the (student_id, course_id) unique constraint: a conflicting
// row is reactivated unless it is already active, in which case nothing is returned.
func (repo *enrollmentRepository) Enroll(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	q := psql.Insert("enrollments").
		Columns("id", "student_id", "course_id", "status", "enrolled_at").
		Values(e.ID, e.StudentID, e.CourseID, e.Status, e.EnrolledAt).
		Suffix(
			"ON CONFLICT (student_id, course_id) DO UPDATE "+
				"SET status = EXCLUDED.status, enrolled_at = EXCLUDED.enrolled_at "+
				"WHERE enrollments.status <> ? RETURNING *",
			enrollment.StatusActive,
		)

	var enrolled enrollment.Enrollment
	if err := get(ctx, repo.db, &enrolled, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(badReference(err), "inserting enrollment")
	}
	return enrolled, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	err := get(ctx, repo.db, &e, psql.Select("*").From("enrollments").Where(sq.Eq{"id": id}))
	return e, notFound(err, enrollment.ErrNotFound)
}

func (repo *enrollmentRepository) SetStatus(ctx context.Context, id, status string) (enrollment.Enrollment, error) {
	q := psql.Update("enrollments").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING *")

	var e enrollment.Enrollment
	err := get(ctx, repo.db, &e, q)
	return e, notFound(err, enrollment.ErrNotFound)
}

func (repo *enrollmentRepository) Unenroll(ctx context.Context, studentID, courseID string) (enrollment.Enrollment, error) {
	q := psql.Update("enrollments").
		Set("status", enrollment.StatusDropped).
		Where(sq.Eq{"student_id": studentID, "course_id": courseID, "status": enrollment.StatusActive}).
		Suffix("RETURNING *")

	var e enrollment.Enrollment
	err := get(ctx, repo.db, &e, q)
	return e, notFound(err, enrollment.ErrNotFound)
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Detail, error) {
	q := psql.Select("e.*", "c.title AS course_title", "u.full_name AS student_name", "u.email AS student_email").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Join("users u ON u.id = e.student_id").
		OrderBy("e.enrolled_at DESC", "e.id")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"e.course_id": filter.CourseID})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"e.student_id": filter.StudentID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"e.status": filter.Status})
	}

	details := make([]enrollment.Detail, 0)
	err := selectAll(ctx, repo.db, &details, q)
	return details, errors.Wrap(err, "selecting enrollments")
}
