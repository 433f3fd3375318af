package inmemdb

import (
	"context"
	"sort"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[a.CourseID]; !ok {
		return assignment.Assignment{}, core.ErrInvalidReference
	}
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, a := range repo.db.assignments {
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			continue
		}
		assignments = append(assignments, *a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].DueDate.Equal(assignments[j].DueDate) {
			return assignments[i].ID < assignments[j].ID
		}
		return assignments[i].DueDate.Before(assignments[j].DueDate)
	})
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.assignments[a.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	for _, s := range repo.db.submissions {
		if s.AssignmentID == a.ID && s.Grade.Valid && s.Grade.Float64 > a.MaxGrade {
			return assignment.Assignment{}, assignment.ErrGradeAboveMax
		}
	}
	orig.Title = a.Title
	orig.Description = a.Description
	orig.DueDate = a.DueDate
	orig.MaxGrade = a.MaxGrade
	orig.UpdatedAt = a.UpdatedAt
	return *orig, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return assignment.ErrNotFound
	}
	repo.db.deleteAssignment(id)
	return nil
}
