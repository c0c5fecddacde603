package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

type activityHandler struct {
	svc *activity.Service
}

func registerActivityAPI(g *echo.Group, opts Options) {
	h := activityHandler{svc: opts.ActivitySvc}

	g.GET("/logs/filtered", h.logs)
	g.GET("/logs/top-sites", h.topSites)
	g.GET("/users/summary", h.summary)
	g.GET("/alerts", h.alerts)
	g.GET("/alerts/:alunoId/:type", h.studentAlerts)
}

func (h activityHandler) logs(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	logs, err := h.svc.Logs(ctx.Request().Context(), getAuthContext(ctx), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (h activityHandler) topSites(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	sites, err := h.svc.TopSites(ctx.Request().Context(), getAuthContext(ctx), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sites)
}

func (h activityHandler) summary(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	summaries, err := h.svc.Summary(ctx.Request().Context(), getAuthContext(ctx), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (h activityHandler) alerts(ctx echo.Context) error {
	f, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	logs, err := h.svc.Alerts(ctx.Request().Context(), getAuthContext(ctx), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (h activityHandler) studentAlerts(ctx echo.Context) error {
	logs, err := h.svc.StudentAlerts(ctx.Request().Context(), getAuthContext(ctx), ctx.Param("alunoId"), ctx.Param("type"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, logs)
}
