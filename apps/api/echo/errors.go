package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

const (
	msgPageNotFound  = "Página não encontrada"
	msgInternalError = "Erro interno do servidor."
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func fieldErrorsResponse(err error, flds []core.FieldError) ErrorResponse {
	resp := ErrorResponse{Fields: make(map[string]string, len(flds))}
	for _, fld := range flds {
		resp.Fields[fld.Field] = fld.Error
	}
	switch {
	case len(flds) > 0:
		resp.Error = flds[0].Error
	case err != nil:
		resp.Error = err.Error()
	}
	return resp
}

func isAPIRequest(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().URL.Path, "/api/")
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var resp ErrorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if code == http.StatusNotFound || code == http.StatusMethodNotAllowed {
				code = http.StatusNotFound
				resp.Error = msgPageNotFound
				break
			}
			if msg, ok := origErr.Message.(string); ok {
				resp.Error = msg
			} else {
				resp.Error = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp = fieldErrorsResponse(nil, core.TranslateValidationErrors(origErr, translator))
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp = fieldErrorsResponse(origErr.Err, origErr.Fields)
		case *core.NotFoundError:
			code = http.StatusNotFound
			resp.Error = origErr.Message
		default: // any other error is a server error
			code = http.StatusInternalServerError
			resp.Error = msgInternalError
			logger.Error(msgInternalError, errors.Wrap(err, ctx.Request().Method+" "+ctx.Request().URL.Path), getAuthContext(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			switch {
			case ctx.Request().Method == http.MethodHead: // Issue #608
				err = ctx.NoContent(code)
			case isAPIRequest(ctx):
				err = ctx.JSON(code, resp)
			default:
				err = ctx.String(code, resp.Error)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
