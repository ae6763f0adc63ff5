package echoapi

import (
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

var (
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
)

type errorResponse struct {
	Error  interface{}       `json:"error"`
	Fields []core.FieldError `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows
// the business layer's error types. shutdown is called when an unexpected
// error proves to be unrecoverable.
func newAppHTTPErrorHandler(logger core.Logger, shutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			resp errorResponse
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Error = origErr.Message

		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp.Error = "invalid input"
			resp.Fields = make([]core.FieldError, 0, len(origErr))
			for _, fe := range origErr {
				resp.Fields = append(resp.Fields, core.FieldError{Field: fe.Field(), Error: fe.Translate(core.Translator)})
			}

		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Error = origErr.Error()
			resp.Fields = origErr.Fields

		default:
			switch origErr {
			case user.ErrNotFound, assignment.ErrNotFound, submission.ErrNotFound:
				code = http.StatusNotFound
				resp.Error = origErr.Error()
			case assignment.ErrPermissionDenied, submission.ErrPermissionDenied:
				code = http.StatusForbidden
				resp.Error = origErr.Error()
			case submission.ErrInvalidTransition:
				code = http.StatusConflict
				resp.Error = origErr.Error()
			default:
				logger.Error(err.Error(), err)
				resp.Error = http.StatusText(code)

				if ok := core.IsShutdown(err); ok {
					logger.Error("unrecoverable error; shutting down server..", err)
					defer shutdown()
				}
			}
		}

		var respErr error
		if ctx.Request().Method == http.MethodHead {
			respErr = ctx.NoContent(code)
		} else {
			respErr = ctx.JSON(code, resp)
		}
		if respErr != nil {
			logger.Error("failed to send error response", respErr)
		}
	}
}
