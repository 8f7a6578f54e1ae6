// Package dashboard composes the landing data of each portal.
package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/user"
)

const (
	recentLimit       = 5
	notificationLimit = 5
)

var ErrUnknownRole = errors.New("no dashboard for this role")

type (
	// RecordView is a record summarised for listing.
	RecordView struct {
		RecordID    string            `json:"record_id"`
		ClassID     string            `json:"class_id"`
		ClassName   string            `json:"class_name"`
		Section     string            `json:"section"`
		TeacherName string            `json:"teacher_name,omitempty"`
		Date        string            `json:"date"`
		Counts      attendance.Counts `json:"counts"`
		Total       int               `json:"total"`
		Rate        int               `json:"rate"`
	}

	// StudentSession is one session as seen by a student.
	StudentSession struct {
		RecordID  string            `json:"record_id"`
		ClassID   string            `json:"class_id"`
		ClassName string            `json:"class_name"`
		Date      string            `json:"date"`
		Status    attendance.Status `json:"status"`
		Notes     string            `json:"notes,omitempty"`
	}

	ClassOverview struct {
		class.Class
		AttendanceRate int `json:"attendance_rate"`
		TotalSessions  int `json:"total_sessions"`
	}

	Student struct {
		Summary       attendance.Summary          `json:"summary"`
		Classes       []class.Class               `json:"classes"`
		Recent        []StudentSession            `json:"recent"`
		Notifications []notification.Notification `json:"notifications"`
	}

	Teacher struct {
		TotalClasses  int                         `json:"total_classes"`
		TotalStudents int                         `json:"total_students"`
		Classes       []ClassOverview             `json:"classes"`
		Stats         attendance.Counts           `json:"stats"`
		Recent        []RecordView                `json:"recent"`
		Notifications []notification.Notification `json:"notifications"`
	}

	Admin struct {
		TotalStudents  int                         `json:"total_students"`
		TotalTeachers  int                         `json:"total_teachers"`
		TotalClasses   int                         `json:"total_classes"`
		AttendanceRate int                         `json:"attendance_rate"`
		Classes        []ClassOverview             `json:"classes"`
		Recent         []RecordView                `json:"recent"`
		Notifications  []notification.Notification `json:"notifications"`
	}

	Service struct {
		users   *user.Service
		classes *class.Service
		att     *attendance.Service
		notifs  *notification.Service
	}
)

func NewService(users *user.Service, classes *class.Service, att *attendance.Service, notifs *notification.Service) *Service {
	return &Service{users: users, classes: classes, att: att, notifs: notifs}
}

// For returns the dashboard of the user's portal.
func (svc *Service) For(ctx context.Context, usr user.User) (interface{}, error) {
	switch usr.Role {
	case user.RoleStudent:
		return svc.Student(ctx, usr)
	case user.RoleTeacher:
		return svc.Teacher(ctx, usr)
	case user.RoleAdmin:
		return svc.Admin(ctx, usr)
	case user.RoleUnknown:
	}
	return nil, ErrUnknownRole
}

func (svc *Service) Student(ctx context.Context, usr user.User) (Student, error) {
	classes, err := svc.classes.Query(ctx, &class.QueryFilter{StudentID: usr.ID})
	if err != nil {
		return Student{}, errors.Wrap(err, "querying student classes")
	}
	records, err := svc.att.Records(ctx, &attendance.QueryFilter{StudentID: usr.ID})
	if err != nil {
		return Student{}, errors.Wrap(err, "querying student records")
	}
	notifs, err := svc.notifs.ForUser(ctx, usr.ID, notificationLimit)
	if err != nil {
		return Student{}, errors.Wrap(err, "querying notifications")
	}

	return Student{
		Summary:       attendance.Summarize(usr.ID, records),
		Classes:       classes,
		Recent:        StudentSessions(usr.ID, attendance.Recent(records, recentLimit), classes),
		Notifications: notifs,
	}, nil
}

func (svc *Service) Teacher(ctx context.Context, usr user.User) (Teacher, error) {
	classes, err := svc.classes.Query(ctx, &class.QueryFilter{TeacherID: usr.ID})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "querying teacher classes")
	}
	records, err := svc.att.Records(ctx, &attendance.QueryFilter{ClassIDs: class.IDs(classes)})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "querying class records")
	}
	if len(classes) == 0 {
		records = nil
	}
	notifs, err := svc.notifs.ForUser(ctx, usr.ID, notificationLimit)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "querying notifications")
	}

	return Teacher{
		TotalClasses:  len(classes),
		TotalStudents: len(class.StudentIDs(classes)),
		Classes:       overviews(classes, records),
		Stats:         attendance.Tally(records),
		Recent:        recordViews(attendance.Recent(records, recentLimit), classesByID(classes), nil),
		Notifications: notifs,
	}, nil
}

func (svc *Service) Admin(ctx context.Context, usr user.User) (Admin, error) {
	users, err := svc.users.Query(ctx, nil)
	if err != nil {
		return Admin{}, errors.Wrap(err, "querying users")
	}
	classes, err := svc.classes.Query(ctx, nil)
	if err != nil {
		return Admin{}, errors.Wrap(err, "querying classes")
	}
	records, err := svc.att.Records(ctx, nil)
	if err != nil {
		return Admin{}, errors.Wrap(err, "querying records")
	}
	notifs, err := svc.notifs.ForUser(ctx, usr.ID, notificationLimit)
	if err != nil {
		return Admin{}, errors.Wrap(err, "querying notifications")
	}

	dash := Admin{
		TotalClasses:   len(classes),
		AttendanceRate: attendance.OverallRate(records),
		Classes:        overviews(classes, records),
		Notifications:  notifs,
	}
	names := make(map[string]string)
	for _, u := range users {
		switch u.Role {
		case user.RoleStudent:
			dash.TotalStudents++
		case user.RoleTeacher:
			dash.TotalTeachers++
			names[u.ID] = u.Name
		case user.RoleAdmin, user.RoleUnknown:
		}
	}
	dash.Recent = recordViews(attendance.Recent(records, recentLimit), classesByID(classes), names)
	return dash, nil
}

// StudentSessions lists the student's entry of each record, in records order.
// Records without an entry for the student are skipped.
func StudentSessions(studentID string, records []attendance.Record, classes []class.Class) []StudentSession {
	byID := classesByID(classes)
	sessions := make([]StudentSession, 0, len(records))
	for _, rec := range records {
		entry, ok := rec.Entry(studentID)
		if !ok {
			continue
		}
		sessions = append(sessions, StudentSession{
			RecordID:  rec.ID,
			ClassID:   rec.ClassID,
			ClassName: byID[rec.ClassID].Name,
			Date:      rec.Date,
			Status:    entry.Status,
			Notes:     entry.Notes,
		})
	}
	return sessions
}

func classesByID(classes []class.Class) map[string]class.Class {
	byID := make(map[string]class.Class, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}
	return byID
}

func overviews(classes []class.Class, records []attendance.Record) []ClassOverview {
	ovs := make([]ClassOverview, 0, len(classes))
	for _, c := range classes {
		rate := attendance.RateForClass(c.ID, records)
		ovs = append(ovs, ClassOverview{Class: c, AttendanceRate: rate.AttendanceRate, TotalSessions: rate.TotalSessions})
	}
	return ovs
}

func recordViews(records []attendance.Record, classes map[string]class.Class, teacherNames map[string]string) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		cls := classes[rec.ClassID]
		counts := attendance.Tally([]attendance.Record{rec})
		views = append(views, RecordView{
			RecordID:    rec.ID,
			ClassID:     rec.ClassID,
			ClassName:   cls.Name,
			Section:     cls.Section,
			TeacherName: teacherNames[cls.TeacherID],
			Date:        rec.Date,
			Counts:      counts,
			Total:       len(rec.Entries),
			Rate:        core.Percent(counts.Present, len(rec.Entries)),
		})
	}
	return views
}
