package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/assignment"
)

type assignmentID struct {
	ID string `json:"assignment_id" validate:"required,uuid"`
}

func (s *server) assignmentFunctions() functions {
	svc := s.deps.AssignmentSvc
	return functions{
		"create_assignment": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var na assignment.NewAssignment
			if err := s.bind(data, &na); err != nil {
				return nil, err
			}
			a, err := svc.Create(ctx, na)
			if err != nil {
				return nil, err
			}
			return echo.Map{"assignment": a}, nil
		},
		"update_assignment": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var ua assignment.UpdateAssignment
			if err := s.bind(data, &ua); err != nil {
				return nil, err
			}
			a, err := svc.Update(ctx, ua)
			if err != nil {
				return nil, err
			}
			return echo.Map{"assignment": a}, nil
		},
		"delete_assignment": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id assignmentID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			return nil, svc.Delete(ctx, id.ID)
		},
		"get_assignments": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter assignment.QueryFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			assignments, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"assignments": assignments}, nil
		},
		"get_assignment": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id assignmentID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			a, err := svc.GetByID(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"assignment": a}, nil
		},
	}
}
