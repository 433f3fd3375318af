package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

type Course struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
// CreatedBy defaults to the caller when omitted.
type NewCourse struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by" validate:"omitempty,uuid"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.CreatedBy = core.CleanString(nc.CreatedBy, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	ID          string  `json:"course_id" validate:"required,uuid"`
	Title       *string `json:"title" validate:"omitempty,notblank"`
	Description *string `json:"description"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanStringPtr(uc.Title)
	uc.Description = core.CleanStringPtr(uc.Description)
	return validate.Struct(uc)
}

func (uc UpdateCourse) apply(c *Course) {
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
}

type QueryFilter struct {
	CreatedBy string `json:"created_by" validate:"omitempty,uuid"`
	Search    string `json:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.CreatedBy = core.CleanString(qf.CreatedBy, true /* lower */)
	qf.Search = core.CleanString(qf.Search)
}
