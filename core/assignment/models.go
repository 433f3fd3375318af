package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"due_date"` // UTC
	MaxGrade    float64   `json:"max_grade" db:"max_grade"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewAssignment struct {
	CourseID    string    `json:"course_id" validate:"required,uuid"`
	Title       string    `json:"title" validate:"required,notblank"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxGrade    float64   `json:"max_grade" validate:"required,gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.CourseID = core.CleanString(na.CourseID, true /* lower */)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.DueDate = na.DueDate.UTC()
	return validate.Struct(na)
}

type UpdateAssignment struct {
	ID          string     `json:"assignment_id" validate:"required,uuid"`
	Title       *string    `json:"title" validate:"omitempty,notblank"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxGrade    *float64   `json:"max_grade" validate:"omitempty,gt=0"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.ID = core.CleanString(ua.ID, true /* lower */)
	ua.Title = core.CleanStringPtr(ua.Title)
	ua.Description = core.CleanStringPtr(ua.Description)
	if ua.DueDate != nil {
		due := ua.DueDate.UTC()
		ua.DueDate = &due
	}
	return validate.Struct(ua)
}

func (ua UpdateAssignment) apply(a *Assignment) {
	if ua.Title != nil {
		a.Title = *ua.Title
	}
	if ua.Description != nil {
		a.Description = *ua.Description
	}
	if ua.DueDate != nil {
		a.DueDate = *ua.DueDate
	}
	if ua.MaxGrade != nil {
		a.MaxGrade = *ua.MaxGrade
	}
}

type QueryFilter struct {
	CourseID string `json:"course_id" validate:"omitempty,uuid"`
}
