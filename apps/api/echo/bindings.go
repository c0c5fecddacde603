package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

// pathID reads a numeric path parameter. A malformed id can't name any row: it yields notFound.
func pathID(ctx echo.Context, name string, notFound error) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// bindFilter reads the log filter from the query string.
func bindFilter(ctx echo.Context) (activity.Filter, error) {
	return activity.ParseFilter(ctx.QueryParams())
}

var errBadBody = echo.NewHTTPError(http.StatusBadRequest, "Corpo da requisição inválido.")

// bindBody binds the request body (JSON or form) into v.
func bindBody(ctx echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, v); err != nil {
		return errBadBody
	}
	return nil
}
