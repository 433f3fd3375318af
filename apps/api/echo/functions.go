package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
)

var (
	errInvalidAction = echo.NewHTTPError(http.StatusBadRequest, "Invalid action")
	errInvalidBody   = core.NewValidationError(errors.New("request body must be a JSON object with an action"))
)

type (
	// request is the body every function receives.
	request struct {
		Action string          `json:"action"`
		Data   json.RawMessage `json:"data"`
	}

	// action handles one request action and returns the response payload, without "success".
	action func(ctx context.Context, data json.RawMessage) (echo.Map, error)

	// functions maps actions to their handler.
	functions map[string]action

	validatable interface {
		Validate(validate *validator.Validate) error
	}
)

func (s *server) serve(fns functions) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var req request
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return errInvalidBody
		}
		act, ok := fns[req.Action]
		if !ok {
			return errInvalidAction
		}

		res, err := act(ctx.Request().Context(), req.Data)
		if err != nil {
			return err
		}
		if res == nil {
			res = echo.Map{}
		}
		res["success"] = true
		return ctx.JSON(http.StatusOK, res)
	}
}

// bind decodes data into v then cleans and validates it.
func (s *server) bind(data json.RawMessage, v interface{}) error {
	if err := decode(data, v); err != nil {
		return err
	}
	return s.check(v)
}

// decode treats missing data as an empty object.
func decode(data json.RawMessage, v interface{}) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return core.NewValidationError(errors.Wrap(err, "malformed data"))
	}
	return nil
}

func (s *server) check(v interface{}) error {
	if vv, ok := v.(validatable); ok {
		return vv.Validate(s.deps.Validate)
	}
	return s.deps.Validate.Struct(v)
}

// callerOr returns id, or the caller's ID when id is empty.
func callerOr(ctx context.Context, id string) string {
	if id != "" {
		return id
	}
	return core.IdentityFrom(ctx).UserID
}
