package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

// Statuses
const (
	StatusActive    = core.EnrollmentActive
	StatusDropped   = core.EnrollmentDropped
	StatusCompleted = core.EnrollmentCompleted
)

type Enrollment struct {
	ID         string    `json:"id" db:"id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	CourseID   string    `json:"course_id" db:"course_id"`
	Status     string    `json:"status" db:"status"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"` // UTC
}

// Detail is an Enrollment joined with its course and student.
type Detail struct {
	Enrollment
	CourseTitle  string `json:"course_title" db:"course_title"`
	StudentName  string `json:"student_name" db:"student_name"`
	StudentEmail string `json:"student_email" db:"student_email"`
}

// NewEnrollment identifies a (student, course) pair.
// StudentID defaults to the caller when omitted.
type NewEnrollment struct {
	StudentID string `json:"student_id" validate:"omitempty,uuid"`
	CourseID  string `json:"course_id" validate:"required,uuid"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.StudentID = core.CleanString(ne.StudentID, true /* lower */)
	ne.CourseID = core.CleanString(ne.CourseID, true /* lower */)
	return validate.Struct(ne)
}

type UpdateStatus struct {
	ID     string `json:"enrollment_id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,enrollstatus"`
}

func (us *UpdateStatus) Validate(validate *validator.Validate) error {
	us.ID = core.CleanString(us.ID, true /* lower */)
	us.Status = core.CleanString(us.Status, true /* lower */)
	return validate.Struct(us)
}

type QueryFilter struct {
	CourseID  string `json:"course_id" validate:"omitempty,uuid"`
	StudentID string `json:"student_id" validate:"omitempty,uuid"`
	Status    string `json:"status" validate:"omitempty,enrollstatus"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.CourseID = core.CleanString(qf.CourseID, true /* lower */)
	qf.StudentID = core.CleanString(qf.StudentID, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	return validate.Struct(qf)
}
