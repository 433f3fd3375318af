package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/notification"
)

type notificationID struct {
	ID string `json:"notification_id" validate:"required,uuid"`
}

func (s *server) notificationFunctions() functions {
	svc := s.deps.NotificationSvc
	return functions{
		"send_notification": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var nn notification.NewNotification
			if err := s.bind(data, &nn); err != nil {
				return nil, err
			}
			note, err := svc.Send(ctx, nn)
			if err != nil {
				return nil, err
			}
			return echo.Map{"notification": note}, nil
		},
		"get_notifications": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter notification.QueryFilter
			if err := decode(data, &filter); err != nil {
				return nil, err
			}
			filter.UserID = callerOr(ctx, filter.UserID)
			if err := s.check(&filter); err != nil {
				return nil, err
			}
			notes, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"notifications": notes}, nil
		},
		"mark_as_read": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id notificationID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			note, err := svc.MarkAsRead(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"notification": note}, nil
		},
		"mark_all_as_read": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id userID
			if err := decode(data, &id); err != nil {
				return nil, err
			}
			id.ID = callerOr(ctx, id.ID)
			if err := s.check(&id); err != nil {
				return nil, err
			}
			count, err := svc.MarkAllAsRead(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"count": count}, nil
		},
		"delete_notification": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id notificationID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			return nil, svc.Delete(ctx, id.ID)
		},
	}
}
