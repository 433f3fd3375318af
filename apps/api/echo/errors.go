package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
)

const invalidDataMsg = "invalid data"

// httpError is the JSON error envelope.
type httpError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body httpError

		var (
			httpErr  *echo.HTTPError
			vErr     *core.ValidationError
			nfErr    *core.NotFoundError
			permErr  *core.PermissionError
			fldsErrs validator.ValidationErrors
		)
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(code)
			}
		case errors.As(err, &fldsErrs):
			code = http.StatusBadRequest
			body.Error = invalidDataMsg
			body.Fields = make(map[string]string, len(fldsErrs))
			for _, fe := range fldsErrs {
				body.Fields[fe.Field()] = fe.Translate(translator)
			}
		case errors.As(err, &vErr):
			code = http.StatusBadRequest
			body.Error = vErr.Error()
			if len(vErr.Fields) > 0 {
				body.Fields = make(map[string]string, len(vErr.Fields))
				for _, fe := range vErr.Fields {
					body.Fields[fe.Field] = fe.Error
				}
				if body.Error == "" {
					body.Error = vErr.Fields[0].Error
				}
			}
			if body.Error == "" {
				body.Error = invalidDataMsg
			}
		case errors.As(err, &nfErr):
			code = http.StatusNotFound
			body.Error = nfErr.Error()
		case errors.As(err, &permErr):
			code = http.StatusForbidden
			body.Error = permErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			body.Error = errors.Cause(err).Error()
			logger.Error(http.StatusText(code), err, contextIdentity(ctx), map[string]interface{}{
				"path": ctx.Request().URL.Path,
			})

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
