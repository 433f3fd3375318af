package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/enrollment"
)

func (s *server) enrollmentFunctions() functions {
	svc := s.deps.EnrollmentSvc
	return functions{
		"enroll_student": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var ne enrollment.NewEnrollment
			if err := s.bind(data, &ne); err != nil {
				return nil, err
			}
			e, err := svc.Enroll(ctx, ne)
			if err != nil {
				return nil, err
			}
			return echo.Map{"enrollment": e}, nil
		},
		"unenroll_student": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var ne enrollment.NewEnrollment
			if err := s.bind(data, &ne); err != nil {
				return nil, err
			}
			e, err := svc.Unenroll(ctx, ne)
			if err != nil {
				return nil, err
			}
			return echo.Map{"enrollment": e}, nil
		},
		"update_enrollment_status": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var us enrollment.UpdateStatus
			if err := s.bind(data, &us); err != nil {
				return nil, err
			}
			e, err := svc.UpdateStatus(ctx, us)
			if err != nil {
				return nil, err
			}
			return echo.Map{"enrollment": e}, nil
		},
		"get_enrollments": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter enrollment.QueryFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			enrollments, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"enrollments": enrollments}, nil
		},
	}
}
