package echoapi

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core/submission"
)

type submissionID struct {
	ID string `json:"submission_id" validate:"required,uuid"`
}

func (s *server) submissionFunctions() functions {
	svc := s.deps.SubmissionSvc
	return functions{
		"create_submission": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var ns submission.NewSubmission
			if err := s.bind(data, &ns); err != nil {
				return nil, err
			}
			sub, err := svc.Create(ctx, ns)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submission": sub}, nil
		},
		"update_submission": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var us submission.UpdateSubmission
			if err := s.bind(data, &us); err != nil {
				return nil, err
			}
			sub, err := svc.Update(ctx, us)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submission": sub}, nil
		},
		"get_submissions": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var filter submission.QueryFilter
			if err := s.bind(data, &filter); err != nil {
				return nil, err
			}
			subs, err := svc.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submissions": subs}, nil
		},
		"get_submission": func(ctx context.Context, data json.RawMessage) (echo.Map, error) {
			var id submissionID
			if err := s.bind(data, &id); err != nil {
				return nil, err
			}
			sub, err := svc.GetByID(ctx, id.ID)
			if err != nil {
				return nil, err
			}
			return echo.Map{"submission": sub}, nil
		},
	}
}
