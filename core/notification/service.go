package notification

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	ErrNotFound = errors.New("notification not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryNotifications returns matching notifications, most recent first.
		QueryNotifications(ctx context.Context, filter QueryFilter) ([]Notification, error)
		CreateNotifications(ctx context.Context, notifs ...Notification) error
		// MarkNotificationRead fails with ErrNotFound unless the notification belongs to userID.
		MarkNotificationRead(ctx context.Context, userID, id string) error
	}

	StudentGetter interface {
		Students(ctx context.Context, ids []string) ([]user.User, error)
	}

	SummaryGetter interface {
		Summary(ctx context.Context, studentID string) (attendance.Summary, error)
	}

	Service struct {
		repo      Repository
		users     StudentGetter
		summaries SummaryGetter
		mailSvc   core.EmailService
	}
)

var _ attendance.SaveListener = (*Service)(nil) // interface compliance check

func NewService(repo Repository, users StudentGetter, summaries SummaryGetter, mailSvc core.EmailService) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		summaries: summaries,
		mailSvc:   mailSvc,
	}
}

// ForUser returns the latest notifications of the user; limit <= 0 returns them all.
func (svc *Service) ForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	notifs, err := svc.repo.QueryNotifications(ctx, QueryFilter{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	if limit > 0 && len(notifs) > limit {
		notifs = notifs[:limit]
	}
	return notifs, nil
}

func (svc *Service) MarkRead(ctx context.Context, userID, id string) error {
	return svc.repo.MarkNotificationRead(ctx, userID, id)
}

// Notify stores notifications, filling in missing ids and timestamps.
func (svc *Service) Notify(ctx context.Context, notifs ...Notification) error {
	now := nowFunc().UTC()
	for i := range notifs {
		if notifs[i].ID == "" {
			notifs[i].ID = uuid.New().String()
		}
		if notifs[i].CreatedAt.IsZero() {
			notifs[i].CreatedAt = now
		}
		if notifs[i].Type == "" {
			notifs[i].Type = TypeInfo
		}
	}
	return svc.repo.CreateNotifications(ctx, notifs...)
}

// AttendanceSaved warns the students marked absent or late, by notification and email,
// and confirms the submission to whoever saved the record.
func (svc *Service) AttendanceSaved(ctx context.Context, cls class.Class, rec attendance.Record) error {
	flagged := make(map[string]attendance.Entry)
	ids := make([]string, 0)
	for _, e := range rec.Entries {
		if e.Status.Flagged() {
			flagged[e.StudentID] = e
			ids = append(ids, e.StudentID)
		}
	}

	notifs := make([]Notification, 0, len(ids)+1)
	for _, id := range ids {
		notifs = append(notifs, Notification{
			UserID:  id,
			Message: fmt.Sprintf("You have been marked %s in %s class", flagged[id].Status, cls.Name),
			Type:    TypeWarning,
		})
	}

	author, verb := rec.CreatedBy, "submitted"
	if rec.LastUpdatedBy != "" {
		author, verb = rec.LastUpdatedBy, "updated"
	}
	notifs = append(notifs, Notification{
		UserID:  author,
		Message: fmt.Sprintf("Attendance for %s class %s has been %s", cls.Name, cls.Section, verb),
		Type:    TypeSuccess,
	})
	if err := svc.Notify(ctx, notifs...); err != nil {
		return errors.Wrap(err, "storing notifications")
	}

	if len(ids) == 0 || svc.mailSvc == nil {
		return nil
	}
	students, err := svc.users.Students(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "getting flagged students")
	}
	messages := make([]*core.EmailMessage, 0, len(students))
	for _, st := range students {
		if st.Email == "" {
			continue
		}
		sum, err := svc.summaries.Summary(ctx, st.ID)
		if err != nil {
			return errors.Wrap(err, "getting student summary")
		}
		e := flagged[st.ID]
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: st.Name, Address: st.Email}},
			Subject:      fmt.Sprintf("Marked %s in %s", e.Status, cls.Name),
			TemplateName: "attendance_flagged",
			TemplateData: flaggedMail{
				Name:       st.Name,
				Status:     string(e.Status),
				ClassName:  cls.Name,
				Section:    cls.Section,
				Date:       rec.Date,
				Notes:      e.Notes,
				Percentage: sum.Percentage,
			},
		})
	}
	svc.mailSvc.SendMessages(messages...)
	return nil
}
