package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

// requireLogin redirects anonymous requests to the login page,
// and makes the AuthContext available to the handlers otherwise.
func (g *sessionGate) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		auth := g.auth(ctx)
		if !auth.IsAuthenticated() {
			return ctx.Redirect(http.StatusFound, "/login")
		}
		ctx.Set(authContextKey, auth)
		return next(ctx)
	}
}

// getAuthContext returns the AuthContext set by requireLogin.
func getAuthContext(ctx echo.Context) core.AuthContext {
	auth, _ := ctx.Get(authContextKey).(core.AuthContext)
	return auth
}
