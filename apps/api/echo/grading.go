package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/grading"
)

func (s *server) gradingFunctions() functions {
	svc := s.deps.GradingSvc
	return functions{
		"grade_submission": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var gs grading.GradeSubmission
			if err := s.bind(data, &gs); err != nil {
				return nil, err
			}
			sub, err := svc.Grade(ctx, gs)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submission": sub}, nil
		},
		"get_student_grades": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter grading.StudentGradesFilter
			if err := decode(data, &filter); err != nil {
				return nil, err
			}
			filter.StudentID = callerOr(ctx, filter.StudentID)
			if err := s.check(&filter); err != nil {
				return nil, err
			}
			grades, err := svc.StudentGrades(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"grades": grades}, nil
		},
		"get_assignment_grades": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id assignmentID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			subs, summary, err := svc.AssignmentGrades(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submissions": subs, "summary": summary}, nil
		},
	}
}
