package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/dashboard"
	"github.com/trezcool/mahudhurio/core/user"
	exportsvc "github.com/trezcool/mahudhurio/services/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type attendanceApi struct {
	auth *authenticator
	deps ServerDeps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := attendanceApi{auth: auth, deps: deps}

	ag := g.Group("/attendance", jwt)
	ag.GET("/summary", api.summary)
	ag.GET("/monthly", api.monthly)
	ag.GET("/records", api.records)
	ag.GET("/export", api.export)
	ag.GET("/tally", api.tally, auth.roleMiddleware(user.RoleTeacher, user.RoleAdmin))
}

// PeriodQuery selects a student's attendance within [from, to]; empty bounds are open.
type PeriodQuery struct {
	StudentID string `json:"student_id"`
	From      string `json:"from" validate:"omitempty,isodate"`
	To        string `json:"to" validate:"omitempty,isodate"`

	from, to time.Time
}

func (api *attendanceApi) bindPeriod(ctx echo.Context) (PeriodQuery, error) {
	q := PeriodQuery{
		StudentID: core.CleanString(ctx.QueryParam("student_id")),
		From:      core.CleanString(ctx.QueryParam("from")),
		To:        core.CleanString(ctx.QueryParam("to")),
	}
	if err := api.deps.Validate.Struct(q); err != nil {
		return q, err
	}
	if q.From != "" {
		q.from, _ = core.ParseDate(q.From)
	}
	if q.To != "" {
		q.to, _ = core.ParseDate(q.To)
	}
	if !q.from.IsZero() && !q.to.IsZero() && q.to.Before(q.from) {
		return q, core.NewValidationError(nil, core.FieldError{Field: "to", Error: "to must not be before from"})
	}
	return q, nil
}

// student resolves whose attendance is asked: students only see themselves,
// teachers the students of their classes and admins any student.
func (api *attendanceApi) student(ctx echo.Context, studentID string) (user.User, error) {
	usr, err := api.auth.contextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context user")
	}

	switch usr.Role {
	case user.RoleStudent:
		if studentID != "" && studentID != usr.ID {
			return user.User{}, errHttpForbidden
		}
		return usr, nil
	case user.RoleTeacher, user.RoleAdmin:
	case user.RoleUnknown:
		return user.User{}, errHttpForbidden
	}

	if studentID == "" {
		return user.User{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	rctx := ctx.Request().Context()
	st, err := api.deps.UserSvc.GetByID(rctx, studentID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding student by ID")
	}
	if !st.IsStudent() {
		return user.User{}, errHttpNotFound
	}
	if usr.IsTeacher() {
		classes, err := api.deps.ClassSvc.Query(rctx, &class.QueryFilter{TeacherID: usr.ID, StudentID: st.ID})
		if err != nil {
			return user.User{}, errors.Wrap(err, "querying teacher classes")
		}
		if len(classes) == 0 {
			return user.User{}, errHttpForbidden
		}
	}
	return st, nil
}

// Handlers

func (api *attendanceApi) summary(ctx echo.Context) error {
	st, err := api.student(ctx, core.CleanString(ctx.QueryParam("student_id")))
	if err != nil {
		return err
	}
	sum, err := api.deps.AttendanceSvc.Summary(ctx.Request().Context(), st.ID)
	if err != nil {
		return errors.Wrap(err, "computing summary")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) monthly(ctx echo.Context) error {
	q, err := api.bindPeriod(ctx)
	if err != nil {
		return err
	}
	st, err := api.student(ctx, q.StudentID)
	if err != nil {
		return err
	}
	reports, err := api.deps.AttendanceSvc.Monthly(ctx.Request().Context(), st.ID, q.from, q.to)
	if err != nil {
		return errors.Wrap(err, "computing monthly reports")
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *attendanceApi) records(ctx echo.Context) error {
	q, err := api.bindPeriod(ctx)
	if err != nil {
		return err
	}
	st, err := api.student(ctx, q.StudentID)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	history, err := api.deps.AttendanceSvc.History(rctx, st.ID, q.from, q.to)
	if err != nil {
		return errors.Wrap(err, "querying history")
	}
	classes, err := api.deps.ClassSvc.Query(rctx, nil)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, dashboard.StudentSessions(st.ID, history, classes))
}

func (api *attendanceApi) export(ctx echo.Context) error {
	q, err := api.bindPeriod(ctx)
	if err != nil {
		return err
	}
	st, err := api.student(ctx, q.StudentID)
	if err != nil {
		return err
	}
	rpt, err := exportsvc.NewStudentReport(ctx.Request().Context(), api.deps.AttendanceSvc, api.deps.ClassSvc, st, q.from, q.to)
	if err != nil {
		return errors.Wrap(err, "building report")
	}

	buf := new(bytes.Buffer)
	if err = exportsvc.WriteStudentReport(buf, rpt); err != nil {
		return errors.Wrap(err, "writing report")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "attendance-"+st.ID+".xlsx"))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (api *attendanceApi) tally(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	rctx := ctx.Request().Context()

	var filter *attendance.QueryFilter
	if usr.IsTeacher() {
		classes, err := api.deps.ClassSvc.Query(rctx, &class.QueryFilter{TeacherID: usr.ID})
		if err != nil {
			return errors.Wrap(err, "querying teacher classes")
		}
		filter = &attendance.QueryFilter{ClassIDs: class.IDs(classes)}
	}
	if id := core.CleanString(ctx.QueryParam("class_id")); id != "" {
		cls, err := api.deps.ClassSvc.Get(rctx, id)
		if err != nil {
			return errors.Wrap(err, "finding class by ID")
		}
		if !canSeeClass(usr, cls) {
			return errHttpNotFound
		}
		filter = &attendance.QueryFilter{ClassIDs: []string{cls.ID}}
	}

	counts, err := api.deps.AttendanceSvc.Tally(rctx, filter)
	if err != nil {
		return errors.Wrap(err, "tallying records")
	}
	return ctx.JSON(http.StatusOK, counts)
}
