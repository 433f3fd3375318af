package analytics

import (
	"context"

	"github.com/pkg/errors"

	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/submission"
)

// Repository counts rows across the whole store.
type Repository interface {
	SystemMetrics(ctx context.Context) (SystemMetrics, error)
}

type (
	CourseFinder interface {
		GetCourse(ctx context.Context, id string) (course.Course, error)
	}
	EnrollmentLister interface {
		QueryEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Detail, error)
	}
	AssignmentLister interface {
		QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error)
	}
	SubmissionLister interface {
		QuerySubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Detail, error)
	}
)

type Deps struct {
	Repo        Repository
	Courses     CourseFinder
	Enrollments EnrollmentLister
	Assignments AssignmentLister
	Submissions SubmissionLister
}

// Service recomputes every metric from full reads on each call.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

type courseRows struct {
	course      course.Course
	students    []enrollment.Detail
	assignments []assignment.Assignment
	submissions []submission.Detail
}

func (svc *Service) fetch(ctx context.Context, courseID, studentID string) (courseRows, error) {
	var rows courseRows
	var err error

	if rows.course, err = svc.deps.Courses.GetCourse(ctx, courseID); err != nil {
		return rows, err
	}
	rows.students, err = svc.deps.Enrollments.QueryEnrollments(ctx, enrollment.QueryFilter{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    enrollment.StatusActive,
	})
	if err != nil {
		return rows, errors.Wrap(err, "querying enrollments")
	}
	rows.assignments, err = svc.deps.Assignments.QueryAssignments(ctx, assignment.QueryFilter{CourseID: courseID})
	if err != nil {
		return rows, errors.Wrap(err, "querying assignments")
	}
	rows.submissions, err = svc.deps.Submissions.QuerySubmissions(ctx, submission.QueryFilter{
		CourseID:  courseID,
		StudentID: studentID,
	})
	if err != nil {
		return rows, errors.Wrap(err, "querying submissions")
	}
	rows.submissions = activeOnly(rows.submissions, rows.students)
	return rows, nil
}

// activeOnly drops submissions from students who are no longer actively enrolled.
func activeOnly(subs []submission.Detail, students []enrollment.Detail) []submission.Detail {
	active := make(map[string]struct{}, len(students))
	for _, e := range students {
		active[e.StudentID] = struct{}{}
	}
	kept := subs[:0]
	for _, s := range subs {
		if _, ok := active[s.StudentID]; ok {
			kept = append(kept, s)
		}
	}
	return kept
}

// CourseAnalytics counts submissions and grades of actively enrolled students only.
func (svc *Service) CourseAnalytics(ctx context.Context, courseID string) (CourseAnalytics, error) {
	rows, err := svc.fetch(ctx, courseID, "")
	if err != nil {
		return CourseAnalytics{}, err
	}

	grades := make([]float64, 0, len(rows.submissions))
	for _, s := range rows.submissions {
		if s.IsGraded() {
			grades = append(grades, s.Grade.Float64)
		}
	}
	return CourseAnalytics{
		CourseID:          rows.course.ID,
		CourseTitle:       rows.course.Title,
		TotalStudents:     len(rows.students),
		TotalAssignments:  len(rows.assignments),
		TotalSubmissions:  len(rows.submissions),
		GradedSubmissions: len(grades),
		AverageGrade:      AverageGrade(grades),
		CompletionRate:    CompletionRate(len(grades), len(rows.students), len(rows.assignments)),
	}, nil
}

// StudentProgress reports, per actively enrolled student, what was submitted and graded.
func (svc *Service) StudentProgress(ctx context.Context, filter ProgressFilter) ([]StudentProgress, error) {
	rows, err := svc.fetch(ctx, filter.CourseID, filter.StudentID)
	if err != nil {
		return nil, err
	}

	type key struct{ student, assignment string }
	subs := make(map[key]submission.Detail, len(rows.submissions))
	for _, s := range rows.submissions {
		subs[key{s.StudentID, s.AssignmentID}] = s
	}

	progress := make([]StudentProgress, 0, len(rows.students))
	for _, e := range rows.students {
		p := StudentProgress{
			StudentID:        e.StudentID,
			StudentName:      e.StudentName,
			StudentEmail:     e.StudentEmail,
			Assignments:      make([]AssignmentProgress, 0, len(rows.assignments)),
			TotalAssignments: len(rows.assignments),
		}
		percentages := make([]float64, 0, len(rows.assignments))
		for _, a := range rows.assignments {
			ap := AssignmentProgress{
				AssignmentID: a.ID,
				Title:        a.Title,
				DueDate:      a.DueDate,
				MaxGrade:     a.MaxGrade,
			}
			if s, ok := subs[key{e.StudentID, a.ID}]; ok {
				ap.Submitted = true
				ap.Grade = s.Grade
				p.SubmittedCount++
				if s.IsGraded() {
					percentages = append(percentages, Percentage(s.Grade.Float64, a.MaxGrade))
				}
			}
			p.Assignments = append(p.Assignments, ap)
		}
		p.GradedCount = len(percentages)
		p.AverageGrade = AverageGrade(percentages)
		p.SubmissionRate = SubmissionRate(p.SubmittedCount, p.TotalAssignments)
		progress = append(progress, p)
	}
	return progress, nil
}

func (svc *Service) SystemMetrics(ctx context.Context) (SystemMetrics, error) {
	m, err := svc.deps.Repo.SystemMetrics(ctx)
	if err != nil {
		return SystemMetrics{}, errors.Wrap(err, "counting rows")
	}
	return m, nil
}
