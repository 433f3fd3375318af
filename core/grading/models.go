package grading

import (
	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

type GradeSubmission struct {
	SubmissionID string   `json:"submission_id" validate:"required,uuid"`
	Grade        *float64 `json:"grade" validate:"required"`
	Feedback     *string  `json:"feedback"`
	// GradedBy defaults to the caller when omitted.
	GradedBy string `json:"graded_by" validate:"omitempty,uuid"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	gs.SubmissionID = core.CleanString(gs.SubmissionID, true /* lower */)
	gs.Feedback = core.CleanStringPtr(gs.Feedback)
	gs.GradedBy = core.CleanString(gs.GradedBy, true /* lower */)
	return validate.Struct(gs)
}

type StudentGradesFilter struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	CourseID  string `json:"course_id" validate:"omitempty,uuid"`
}

// AssignmentGrades lists every submission of an assignment, graded or not.
type AssignmentGrades struct {
	AssignmentID string  `json:"assignment_id"`
	Submissions  int     `json:"total_submissions"`
	Graded       int     `json:"graded_submissions"`
	AverageGrade float64 `json:"average_grade"`
}
