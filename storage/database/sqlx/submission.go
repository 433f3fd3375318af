package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func selectSubmissionDetails() sq.SelectBuilder {
	return psql.Select(
		"s.*",
		"a.title AS assignment_title",
		"a.course_id",
		"a.max_grade",
		"u.full_name AS student_name",
	).
		From("submissions s").
		Join("assignments a ON a.id = s.assignment_id").
		Join("users u ON u.id = s.student_id")
}

// CreateSubmission relies on the (student_id, assignment_id) unique constraint.
func (repo *submissionRepository) CreateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	q := psql.Insert("submissions").
		Columns("id", "assignment_id", "student_id", "content", "file_url", "submitted_at", "updated_at").
		Values(s.ID, s.AssignmentID, s.StudentID, s.Content, s.FileURL, s.SubmittedAt, s.UpdatedAt).
		Suffix("ON CONFLICT (student_id, assignment_id) DO NOTHING RETURNING *")

	var created submission.Submission
	if err := get(ctx, repo.db, &created, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
		return submission.Submission{}, errors.Wrap(badReference(err), "inserting submission")
	}
	return created, nil
}

func (repo *submissionRepository) GetSubmission(ctx context.Context, id string) (submission.Detail, error) {
	var d submission.Detail
	err := get(ctx, repo.db, &d, selectSubmissionDetails().Where(sq.Eq{"s.id": id}))
	return d, notFound(err, submission.ErrNotFound)
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	q := psql.Update("submissions").
		Set("content", s.Content).
		Set("file_url", s.FileURL).
		Set("updated_at", s.UpdatedAt).
		Where(sq.Eq{"id": s.ID, "grade": nil}).
		Suffix("RETURNING *")

	var updated submission.Submission
	err := get(ctx, repo.db, &updated, q)
	if errors.Is(err, sql.ErrNoRows) {
		// missing or graded
		var exists bool
		if err := get(ctx, repo.db, &exists, psql.Select("true").From("submissions").Where(sq.Eq{"id": s.ID})); err != nil {
			return submission.Submission{}, notFound(err, submission.ErrNotFound)
		}
		return submission.Submission{}, submission.ErrAlreadyGraded
	}
	return updated, errors.Wrap(err, "updating submission")
}

func (repo *submissionRepository) GradeSubmission(ctx context.Context, id string, g submission.Grade) (submission.Submission, error) {
	q := psql.Update("submissions").
		SetMap(map[string]interface{}{
			"grade":      g.Grade,
			"feedback":   g.Feedback,
			"graded_by":  g.GradedBy,
			"graded_at":  g.GradedAt,
			"updated_at": g.GradedAt,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING *")

	var graded submission.Submission
	if err := get(ctx, repo.db, &graded, q); err != nil {
		return submission.Submission{}, notFound(badReference(err), submission.ErrNotFound)
	}
	return graded, nil
}

func (repo *submissionRepository) QuerySubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Detail, error) {
	q := selectSubmissionDetails().OrderBy("s.submitted_at DESC", "s.id")
	if filter.AssignmentID != "" {
		q = q.Where(sq.Eq{"s.assignment_id": filter.AssignmentID})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"s.student_id": filter.StudentID})
	}
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"a.course_id": filter.CourseID})
	}
	if filter.GradedOnly {
		q = q.Where(sq.NotEq{"s.grade": nil})
	}

	details := make([]submission.Detail, 0)
	err := selectAll(ctx, repo.db, &details, q)
	return details, errors.Wrap(err, "selecting submissions")
}
