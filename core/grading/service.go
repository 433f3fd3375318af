package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
)

// Repository is the part of the submission store grading works on.
type Repository interface {
	GetSubmission(ctx context.Context, id string) (submission.Detail, error)
	GradeSubmission(ctx context.Context, id string, g submission.Grade) (submission.Submission, error)
	QuerySubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Detail, error)
}

type Service struct {
	repo     Repository
	notifier notification.Notifier
}

func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Grade sets the grade of a submission, which must lie within [0, max_grade].
func (svc *Service) Grade(ctx context.Context, gs GradeSubmission) (submission.Submission, error) {
	d, err := svc.repo.GetSubmission(ctx, gs.SubmissionID)
	if err != nil {
		return submission.Submission{}, err
	}
	grade := *gs.Grade
	if grade < 0 || grade > d.MaxGrade {
		msg := fmt.Sprintf("grade must be between 0 and %g", d.MaxGrade)
		return submission.Submission{}, core.NewValidationError(errors.New(msg), core.FieldError{Field: "grade", Error: msg})
	}

	gradedBy := gs.GradedBy
	if gradedBy == "" {
		gradedBy = core.IdentityFrom(ctx).UserID
	}
	s, err := svc.repo.GradeSubmission(ctx, d.ID, submission.Grade{
		Grade:    grade,
		Feedback: null.StringFromPtr(gs.Feedback),
		GradedBy: null.NewString(gradedBy, gradedBy != ""),
		GradedAt: time.Now().UTC(),
	})
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "grading submission")
	}

	svc.notifier.Notify(ctx, notification.NewNotification{
		UserID:  s.StudentID,
		Type:    notification.TypeGrade,
		Title:   "Assignment Graded",
		Message: fmt.Sprintf("Your submission for %q has been graded: %g/%g", d.AssignmentTitle, grade, d.MaxGrade),
	})
	return s, nil
}

// StudentGrades lists the graded submissions of a student, optionally within one course.
func (svc *Service) StudentGrades(ctx context.Context, filter StudentGradesFilter) ([]submission.Detail, error) {
	return svc.repo.QuerySubmissions(ctx, submission.QueryFilter{
		StudentID:  filter.StudentID,
		CourseID:   filter.CourseID,
		GradedOnly: true,
	})
}

func (svc *Service) AssignmentGrades(ctx context.Context, assignmentID string) ([]submission.Detail, AssignmentGrades, error) {
	subs, err := svc.repo.QuerySubmissions(ctx, submission.QueryFilter{AssignmentID: assignmentID})
	if err != nil {
		return nil, AssignmentGrades{}, errors.Wrap(err, "querying submissions")
	}

	summary := AssignmentGrades{AssignmentID: assignmentID, Submissions: len(subs)}
	grades := make([]float64, 0, len(subs))
	for _, s := range subs {
		if s.IsGraded() {
			grades = append(grades, s.Grade.Float64)
		}
	}
	summary.Graded = len(grades)
	summary.AverageGrade = analytics.AverageGrade(grades)
	return subs, summary, nil
}
