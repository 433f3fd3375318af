package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/analytics"
)

func (s *server) analyticsFunctions() functions {
	svc := s.deps.AnalyticsSvc
	return functions{
		"get_course_analytics": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id courseID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			ca, err := svc.CourseAnalytics(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"analytics": ca}, nil
		},
		"get_student_progress": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter analytics.ProgressFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			progress, err := svc.StudentProgress(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"progress": progress}, nil
		},
		"get_system_metrics": func(ctx context.Context, _ json.RawMessage) (echo.Map, error) {
			m, err := svc.SystemMetrics(ctx)
			if err != nil {
				return nil, err
			}
			return echo.Map{"metrics": m}, nil
		},
	}
}
