package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Every error body has the shape {"error": "<message>"}.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		person, _ := getContextPerson(ctx)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = origErr.Error()
			if len(origErr) > 0 {
				message = origErr[0].Field() + " invalid"
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		case *core.FetchError:
			code = http.StatusBadRequest
			message = origErr.Error()
			logger.Warn(origErr.Error(), errors.Wrapf(origErr.Err, "fetching %s (status %d)", origErr.URL, origErr.Status), person)
		case *core.ParseError:
			code = http.StatusInternalServerError
			message = origErr.Error()
			logger.Error(origErr.Error(), err, person)
		case *core.InternalError:
			code = http.StatusInternalServerError
			message = origErr.Error()
			logger.Error(origErr.Error(), err, person)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = origErr.Error()
			logger.Error(http.StatusText(code), errors.Wrap(err, http.StatusText(code)), person)
		}

		if ctx.Echo().Debug && code < http.StatusInternalServerError {
			logger.Debug(fmt.Sprintf("%d %s %s: %v", code, ctx.Request().Method, ctx.Path(), err), person)
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
