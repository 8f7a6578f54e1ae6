package notification

import "time"

// Type is the severity of a Notification.
type Type string

// Types
const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
	Type      Type      `json:"type"`
}

type QueryFilter struct {
	UserID     string
	UnreadOnly bool
}

func (qf QueryFilter) Match(n Notification) bool {
	if qf.UserID != "" && n.UserID != qf.UserID {
		return false
	}
	if qf.UnreadOnly && n.Read {
		return false
	}
	return true
}

// flaggedMail is the data of the attendance_flagged email template.
type flaggedMail struct {
	Name       string
	Status     string
	ClassName  string
	Section    string
	Date       string
	Notes      string
	Percentage int
}
