package notification

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/backend/core"
)

// Types
const (
	TypeCourse     = "course"
	TypeEnrollment = "enrollment"
	TypeAssignment = "assignment"
	TypeSubmission = "submission"
	TypeGrade      = "grade"
	TypeSystem     = "system"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewNotification is the payload of the send_notification action.
type NewNotification struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Type    string `json:"type" validate:"required,notblank"`
	Title   string `json:"title" validate:"required,notblank"`
	Message string `json:"message" validate:"required,notblank"`
}

func (nn *NewNotification) Validate(validate *validator.Validate) error {
	nn.UserID = core.CleanString(nn.UserID, true /* lower */)
	nn.Type = core.CleanString(nn.Type, true /* lower */)
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	return validate.Struct(nn)
}

type QueryFilter struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	UnreadOnly bool   `json:"unread_only"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.UserID = core.CleanString(qf.UserID, true /* lower */)
	return validate.Struct(qf)
}
