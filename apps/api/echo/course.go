package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/course"
)

type courseID struct {
	ID string `json:"course_id" validate:"required,uuid"`
}

func (s *server) courseFunctions() functions {
	svc := s.deps.CourseSvc
	return functions{
		"create_course": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var nc course.NewCourse
			if err := s.bind(data, &nc); err != nil {
				return nil, err
			}
			c, err := svc.Create(ctx, nc)
			if err != nil {
				return nil, err
			}
			return echo.Map{"course": c}, nil
		},
		"update_course": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var uc course.UpdateCourse
			if err := s.bind(data, &uc); err != nil {
				return nil, err
			}
			c, err := svc.Update(ctx, uc)
			if err != nil {
				return nil, err
			}
			return echo.Map{"course": c}, nil
		},
		"delete_course": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id courseID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			return nil, svc.Delete(ctx, id.ID)
		},
		"get_courses": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter course.QueryFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			courses, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"courses": courses}, nil
		},
		"get_course": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id courseID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			c, err := svc.GetByID(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"course": c}, nil
		},
	}
}
