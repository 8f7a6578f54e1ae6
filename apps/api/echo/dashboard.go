package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/dashboard"
)

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	g.GET("/dashboard", func(ctx echo.Context) error {
		usr, err := auth.contextUser(ctx, deps.UserSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		dash, err := deps.DashboardSvc.For(ctx.Request().Context(), usr)
		if err != nil {
			if errors.Cause(err) == dashboard.ErrUnknownRole {
				return errHttpForbidden
			}
			return errors.Wrap(err, "building dashboard")
		}
		return ctx.JSON(http.StatusOK, dash)
	}, jwt)
}
