package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	contextClassKey = "class"

	errClassNotFoundInCtx = errors.New("class object not found in echo.Context")
)

type classApi struct {
	auth *authenticator
	deps ServerDeps
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := classApi{auth: auth, deps: deps}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.query)

	// detail endpoints
	staff := auth.roleMiddleware(user.RoleTeacher, user.RoleAdmin)
	dg := cg.Group("/:id", api.classMiddleware)
	dg.GET("", api.retrieve)
	dg.GET("/rate", api.rate)
	dg.GET("/records", api.records, staff)
	dg.GET("/sheet", api.sheet, staff)
	dg.PUT("/attendance", api.saveAttendance, staff)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var filter *class.QueryFilter
	switch usr.Role {
	case user.RoleStudent:
		filter = &class.QueryFilter{StudentID: usr.ID}
	case user.RoleTeacher:
		filter = &class.QueryFilter{TeacherID: usr.ID}
	case user.RoleAdmin:
	case user.RoleUnknown:
		return errHttpForbidden
	}

	classes, err := api.deps.ClassSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) rate(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	rate, err := api.deps.AttendanceSvc.ClassRate(ctx.Request().Context(), cls.ID)
	if err != nil {
		return errors.Wrap(err, "computing class rate")
	}
	return ctx.JSON(http.StatusOK, rate)
}

func (api *classApi) records(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	records, err := api.deps.AttendanceSvc.Records(ctx.Request().Context(), &attendance.QueryFilter{ClassIDs: []string{cls.ID}})
	if err != nil {
		return errors.Wrap(err, "querying class records")
	}
	return ctx.JSON(http.StatusOK, attendance.SortByDateDesc(records))
}

func (api *classApi) sheet(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	sheet, err := api.deps.AttendanceSvc.Sheet(ctx.Request().Context(), cls, ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "getting attendance sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *classApi) saveAttendance(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	usr, err := api.auth.contextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.NewRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	data.ClassID = cls.ID

	rec, err := api.deps.AttendanceSvc.Save(ctx.Request().Context(), data, usr)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// classMiddleware loads the :id class, hiding it from users who cannot see it.
func (api *classApi) classMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := api.auth.contextUser(ctx, api.deps.UserSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		cls, err := api.deps.ClassSvc.Get(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == class.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding class by ID")
		}
		if !canSeeClass(usr, cls) {
			return errHttpNotFound
		}
		ctx.Set(contextClassKey, cls)
		return next(ctx)
	}
}

func canSeeClass(usr user.User, cls class.Class) bool {
	switch usr.Role {
	case user.RoleAdmin:
		return true
	case user.RoleTeacher:
		return cls.TeacherID == usr.ID
	case user.RoleStudent:
		return cls.Enrolled(usr.ID)
	case user.RoleUnknown:
	}
	return false
}

func contextClass(ctx echo.Context) (class.Class, error) {
	cls, ok := ctx.Get(contextClassKey).(class.Class)
	if !ok {
		return class.Class{}, errors.Wrap(errClassNotFoundInCtx, "retrieving class from context")
	}
	return cls, nil
}
