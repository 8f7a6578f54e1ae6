package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/dashboard"
)

func TestDashboardApi(t *testing.T) {
	app := setup(t)

	t.Run("no token", func(t *testing.T) {
		tc := httpTest{method: http.MethodGet, path: "/v1/dashboard", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)}
		checkCodeAndData(t, tc, app.do(tc))
	})

	t.Run("student", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/dashboard", token: app.getToken(t, "2")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash dashboard.Student
		decode(t, rec, &dash)
		assert.Equal(t, attendance.Summary{
			StudentID:    "2",
			TotalClasses: 3,
			Counts:       attendance.Counts{Present: 1, Absent: 1, Late: 1},
			Percentage:   33,
		}, dash.Summary)
		assert.Equal(t, []string{"1"}, class.IDs(dash.Classes))
		require.Len(t, dash.Recent, 3)
		assert.Equal(t, attendance.StatusLate, dash.Recent[0].Status)
		assert.Empty(t, dash.Notifications)
	})

	t.Run("teacher", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/dashboard", token: app.getToken(t, "4")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash dashboard.Teacher
		decode(t, rec, &dash)
		assert.Equal(t, 2, dash.TotalClasses)
		assert.Equal(t, 3, dash.TotalStudents)
		assert.Equal(t, attendance.Counts{Present: 4, Absent: 2, Late: 1}, dash.Stats)
		require.Len(t, dash.Classes, 2)
		assert.Equal(t, 50, dash.Classes[0].AttendanceRate)
		assert.Equal(t, 100, dash.Classes[1].AttendanceRate)
		require.Len(t, dash.Recent, 4)
		assert.Equal(t, "1-2024-02-05", dash.Recent[0].RecordID)
		assert.Equal(t, 0, dash.Recent[0].Rate)
		require.Len(t, dash.Notifications, 1)
	})

	t.Run("admin", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/dashboard", token: app.getToken(t, "6")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash dashboard.Admin
		decode(t, rec, &dash)
		assert.Equal(t, 5, dash.TotalStudents)
		assert.Equal(t, 2, dash.TotalTeachers)
		assert.Equal(t, 3, dash.TotalClasses)
		assert.Equal(t, 56, dash.AttendanceRate) // 5 of 9 entries
		require.Len(t, dash.Recent, 5)
		assert.Equal(t, "Jessica Brown", dash.Recent[0].TeacherName)
		require.Len(t, dash.Classes, 3)
		assert.Equal(t, 50, dash.Classes[1].AttendanceRate)
	})
}
