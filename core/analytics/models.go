package analytics

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type CourseAnalytics struct {
	CourseID          string  `json:"course_id"`
	CourseTitle       string  `json:"course_title"`
	TotalStudents     int     `json:"total_students"`
	TotalAssignments  int     `json:"total_assignments"`
	TotalSubmissions  int     `json:"total_submissions"`
	GradedSubmissions int     `json:"graded_submissions"`
	AverageGrade      float64 `json:"average_grade"`
	CompletionRate    int     `json:"completion_rate"`
}

type AssignmentProgress struct {
	AssignmentID string       `json:"assignment_id"`
	Title        string       `json:"title"`
	DueDate      time.Time    `json:"due_date"`
	MaxGrade     float64      `json:"max_grade"`
	Submitted    bool         `json:"submitted"`
	Grade        null.Float64 `json:"grade"`
}

type StudentProgress struct {
	StudentID        string               `json:"student_id"`
	StudentName      string               `json:"student_name"`
	StudentEmail     string               `json:"student_email"`
	Assignments      []AssignmentProgress `json:"assignments"`
	TotalAssignments int                  `json:"total_assignments"`
	SubmittedCount   int                  `json:"submitted_count"`
	GradedCount      int                  `json:"graded_count"`
	AverageGrade     float64              `json:"average_grade"` // percentage
	SubmissionRate   int                  `json:"submission_rate"`
}

type SystemMetrics struct {
	TotalCourses     int `json:"total_courses" db:"total_courses"`
	TotalStudents    int `json:"total_students" db:"total_students"`
	TotalLecturers   int `json:"total_lecturers" db:"total_lecturers"`
	TotalAssignments int `json:"total_assignments" db:"total_assignments"`
	TotalSubmissions int `json:"total_submissions" db:"total_submissions"`
	TotalEnrollments int `json:"total_enrollments" db:"total_enrollments"`
}

type ProgressFilter struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"omitempty,uuid"`
}
