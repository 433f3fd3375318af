package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/user"
)

type (
	userID struct {
		ID string `json:"user_id" validate:"required,uuid"`
	}
	// callerID defaults to the caller when empty.
	callerID struct {
		ID string `json:"user_id" validate:"omitempty,uuid"`
	}
)

func (s *server) userFunctions() functions {
	svc := s.deps.UserSvc
	return functions{
		"create_user": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var nu user.NewUser
			if err := s.bind(data, &nu); err != nil {
				return nil, err
			}
			usr, err := svc.Create(ctx, nu)
			if err != nil {
				return nil, err
			}
			return echo.Map{"user": usr}, nil
		},
		"register": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var r user.Registration
			if err := s.bind(data, &r); err != nil {
				return nil, err
			}
			usr, err := svc.Register(ctx, r)
			if err != nil {
				return nil, err
			}
			return echo.Map{"user": usr}, nil
		},
		"update_user": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var uu user.UpdateUser
			if err := s.bind(data, &uu); err != nil {
				return nil, err
			}
			usr, err := svc.Update(ctx, uu)
			if err != nil {
				return nil, err
			}
			return echo.Map{"user": usr}, nil
		},
		"delete_user": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id userID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			return nil, svc.Delete(ctx, id.ID)
		},
		"get_users": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter user.QueryFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			users, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"users": users}, nil
		},
		"get_user": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id callerID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			usr, err := svc.GetByID(ctx, callerOr(ctx, id.ID))
			if err != nil {
				return nil, err
			}
			return echo.Map{"user": usr}, nil
		},
	}
}
