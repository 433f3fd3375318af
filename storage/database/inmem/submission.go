package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) detail(s submission.Submission) submission.Detail {
	d := submission.Detail{Submission: s}
	if a, ok := repo.db.assignments[s.AssignmentID]; ok {
		d.AssignmentTitle = a.Title
		d.CourseID = a.CourseID
		d.MaxGrade = a.MaxGrade
	}
	if u, ok := repo.db.users[s.StudentID]; ok {
		d.StudentName = u.FullName
	}
	return d
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, s submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	_, studentOK := repo.db.users[s.StudentID]
	_, assignmentOK := repo.db.assignments[s.AssignmentID]
	if !(studentOK && assignmentOK) {
		return submission.Submission{}, core.ErrInvalidReference
	}
	for _, existing := range repo.db.submissions {
		if existing.StudentID == s.StudentID && existing.AssignmentID == s.AssignmentID {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
	}
	repo.db.submissions[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) GetSubmission(_ context.Context, id string) (submission.Detail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.submissions[id]; ok {
		return repo.detail(*s), nil
	}
	return submission.Detail{}, submission.ErrNotFound
}

func (repo *submissionRepository) UpdateSubmission(_ context.Context, s submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.submissions[s.ID]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	if orig.IsGraded() {
		return submission.Submission{}, submission.ErrAlreadyGraded
	}
	orig.Content = s.Content
	orig.FileURL = s.FileURL
	orig.UpdatedAt = s.UpdatedAt
	return *orig, nil
}

func (repo *submissionRepository) GradeSubmission(_ context.Context, id string, g submission.Grade) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.submissions[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	if g.GradedBy.Valid {
		if _, ok := repo.db.users[g.GradedBy.String]; !ok {
			return submission.Submission{}, core.ErrInvalidReference
		}
	}
	s.Grade = null.Float64From(g.Grade)
	s.Feedback = g.Feedback
	s.GradedBy = g.GradedBy
	s.GradedAt = null.TimeFrom(g.GradedAt)
	s.UpdatedAt = g.GradedAt
	return *s, nil
}

func (repo *submissionRepository) QuerySubmissions(_ context.Context, filter submission.QueryFilter) ([]submission.Detail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	details := make([]submission.Detail, 0)
	for _, s := range repo.db.submissions {
		if filter.AssignmentID != "" && s.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		if filter.GradedOnly && !s.IsGraded() {
			continue
		}
		d := repo.detail(*s)
		if filter.CourseID != "" && d.CourseID != filter.CourseID {
			continue
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].SubmittedAt.Equal(details[j].SubmittedAt) {
			return details[i].ID < details[j].ID
		}
		return details[i].SubmittedAt.After(details[j].SubmittedAt)
	})
	return details, nil
}
