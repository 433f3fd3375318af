package inmemdb

import (
	"context"
	"sort"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) find(studentID, courseID string) *enrollment.Enrollment {
	for _, e := range repo.db.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e
		}
	}
	return nil
}

func (repo *enrollmentRepository) detail(e enrollment.Enrollment) enrollment.Detail {
	d := enrollment.Detail{Enrollment: e}
	if c, ok := repo.db.courses[e.CourseID]; ok {
		d.CourseTitle = c.Title
	}
	if u, ok := repo.db.users[e.StudentID]; ok {
		d.StudentName = u.FullName
		d.StudentEmail = u.Email
	}
	return d
}

func (repo *enrollmentRepository) Enroll(_ context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	_, studentOK := repo.db.users[e.StudentID]
	_, courseOK := repo.db.courses[e.CourseID]
	if !(studentOK && courseOK) {
		return enrollment.Enrollment{}, core.ErrInvalidReference
	}

	if existing := repo.find(e.StudentID, e.CourseID); existing != nil {
		if existing.Status == enrollment.StatusActive {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		existing.Status = enrollment.StatusActive
		existing.EnrolledAt = e.EnrolledAt
		return *existing, nil
	}
	repo.db.enrollments[e.ID] = &e
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.enrollments[id]; ok {
		return *e, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) SetStatus(_ context.Context, id, status string) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.enrollments[id]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	e.Status = status
	return *e, nil
}

func (repo *enrollmentRepository) Unenroll(_ context.Context, studentID, courseID string) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e := repo.find(studentID, courseID)
	if e == nil || e.Status != enrollment.StatusActive {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	e.Status = enrollment.StatusDropped
	return *e, nil
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter enrollment.QueryFilter) ([]enrollment.Detail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	details := make([]enrollment.Detail, 0)
	for _, e := range repo.db.enrollments {
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		details = append(details, repo.detail(*e))
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].EnrolledAt.Equal(details[j].EnrolledAt) {
			return details[i].ID < details[j].ID
		}
		return details[i].EnrolledAt.After(details[j].EnrolledAt)
	})
	return details, nil
}
