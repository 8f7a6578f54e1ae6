package exportsvc

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/user"
)

// NewStudentReport gathers the attendance of st dated within [from, to]; zero bounds are open.
func NewStudentReport(ctx context.Context, att *attendance.Service, classes *class.Service, st user.User, from, to time.Time) (StudentReport, error) {
	history, err := att.History(ctx, st.ID, from, to)
	if err != nil {
		return StudentReport{}, errors.Wrap(err, "querying history")
	}
	monthly, err := att.Monthly(ctx, st.ID, from, to)
	if err != nil {
		return StudentReport{}, errors.Wrap(err, "computing monthly reports")
	}
	all, err := classes.Query(ctx, nil)
	if err != nil {
		return StudentReport{}, errors.Wrap(err, "querying classes")
	}

	infos := make(map[string]ClassInfo, len(all))
	for _, c := range all {
		infos[c.ID] = ClassInfo{Name: c.Name, Section: c.Section}
	}
	return StudentReport{
		Student: st,
		From:    formatDay(from),
		To:      formatDay(to),
		Summary: attendance.Summarize(st.ID, history),
		Monthly: monthly,
		Records: history,
		Classes: infos,
	}, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(core.DateLayout)
}
