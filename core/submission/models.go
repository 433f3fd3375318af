package submission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/coursehub/backend/core"
)

type Submission struct {
	ID           string       `json:"id" db:"id"`
	AssignmentID string       `json:"assignment_id" db:"assignment_id"`
	StudentID    string       `json:"student_id" db:"student_id"`
	Content      string       `json:"content" db:"content"`
	FileURL      null.String  `json:"file_url" db:"file_url"`
	Grade        null.Float64 `json:"grade" db:"grade"`
	Feedback     null.String  `json:"feedback" db:"feedback"`
	GradedBy     null.String  `json:"graded_by" db:"graded_by"`
	GradedAt     null.Time    `json:"graded_at" db:"graded_at"`       // UTC
	SubmittedAt  time.Time    `json:"submitted_at" db:"submitted_at"` // UTC
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`     // UTC
}

func (s Submission) IsGraded() bool { return s.Grade.Valid }

// Detail is a Submission joined with its assignment and student.
type Detail struct {
	Submission
	AssignmentTitle string  `json:"assignment_title" db:"assignment_title"`
	CourseID        string  `json:"course_id" db:"course_id"`
	MaxGrade        float64 `json:"max_grade" db:"max_grade"`
	StudentName     string  `json:"student_name" db:"student_name"`
}

// NewSubmission contains information needed to submit an assignment.
// StudentID defaults to the caller when omitted.
type NewSubmission struct {
	AssignmentID string  `json:"assignment_id" validate:"required,uuid"`
	StudentID    string  `json:"student_id" validate:"omitempty,uuid"`
	Content      string  `json:"content" validate:"required,notblank"`
	FileURL      *string `json:"file_url" validate:"omitempty,url"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentID = core.CleanString(ns.AssignmentID, true /* lower */)
	ns.StudentID = core.CleanString(ns.StudentID, true /* lower */)
	ns.Content = core.CleanString(ns.Content)
	ns.FileURL = core.CleanStringPtr(ns.FileURL)
	return validate.Struct(ns)
}

// UpdateSubmission is what a student may still change before grading.
type UpdateSubmission struct {
	ID      string  `json:"submission_id" validate:"required,uuid"`
	Content *string `json:"content" validate:"omitempty,notblank"`
	FileURL *string `json:"file_url" validate:"omitempty,url"`
}

func (us *UpdateSubmission) Validate(validate *validator.Validate) error {
	us.ID = core.CleanString(us.ID, true /* lower */)
	us.Content = core.CleanStringPtr(us.Content)
	us.FileURL = core.CleanStringPtr(us.FileURL)
	return validate.Struct(us)
}

func (us UpdateSubmission) apply(s *Submission) {
	if us.Content != nil {
		s.Content = *us.Content
	}
	if us.FileURL != nil {
		s.FileURL = null.StringFrom(*us.FileURL)
	}
}

// Grade is the single write made when grading a submission.
type Grade struct {
	Grade    float64
	Feedback null.String
	GradedBy null.String
	GradedAt time.Time
}

type QueryFilter struct {
	AssignmentID string `json:"assignment_id" validate:"omitempty,uuid"`
	StudentID    string `json:"student_id" validate:"omitempty,uuid"`
	CourseID     string `json:"course_id" validate:"omitempty,uuid"`
	GradedOnly   bool   `json:"graded_only"`
}
