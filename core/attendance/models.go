package attendance

import (
	"fmt"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

// Status is the outcome of one student for one session.
type Status string

// Statuses
const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Flagged reports whether the status is worth telling the student about.
func (s Status) Flagged() bool {
	return s == StatusAbsent || s == StatusLate
}

// UnmarshalText normalises the text; unknown statuses are rejected by the attstatus validation tag.
func (s *Status) UnmarshalText(text []byte) error {
	*s = Status(core.CleanString(string(text), true /* lower */))
	return nil
}

type Entry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    Status `json:"status" validate:"attstatus"`
	Notes     string `json:"notes,omitempty"`
}

// Record is the attendance sheet of one class session.
type Record struct {
	ID            string     `json:"id"`
	ClassID       string     `json:"class_id"`
	Date          string     `json:"date"` // YYYY-MM-DD
	Entries       []Entry    `json:"entries"`
	CreatedBy     string     `json:"created_by"`
	LastUpdatedBy string     `json:"last_updated_by,omitempty"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"` // UTC
}

// RecordID is the identifier of the (class, date) session.
func RecordID(classID, date string) string {
	return classID + "-" + date
}

// Day parses the record date.
func (r Record) Day() (time.Time, error) {
	return core.ParseDate(r.Date)
}

// Entry returns the entry of the student, if any.
func (r Record) Entry(studentID string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.StudentID == studentID {
			return e, true
		}
	}
	return Entry{}, false
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	if r.Entries != nil {
		c.Entries = make([]Entry, len(r.Entries))
		copy(c.Entries, r.Entries)
	}
	if r.LastUpdatedAt != nil {
		t := *r.LastUpdatedAt
		c.LastUpdatedAt = &t
	}
	return c
}

// Counts tallies entries per status.
type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

// add increments the counter of the status. Unknown statuses are not counted.
func (c *Counts) add(s Status) bool {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	case StatusExcused:
		c.Excused++
	default:
		return false
	}
	return true
}

func (c Counts) Total() int {
	return c.Present + c.Absent + c.Late + c.Excused
}

type Summary struct {
	StudentID    string `json:"student_id"`
	TotalClasses int    `json:"total_classes"`
	Counts
	Percentage int `json:"percentage"`
}

type ClassRate struct {
	ClassID        string `json:"class_id"`
	AttendanceRate int    `json:"attendance_rate"`
	TotalSessions  int    `json:"total_sessions"`
}

type MonthlyReport struct {
	Month  string `json:"month"`  // "January 2006"
	Period string `json:"period"` // "2006-01"
	Counts
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// DataWarning flags a record that was left out of a computation because its data is malformed.
type DataWarning struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

func (w DataWarning) String() string {
	return fmt.Sprintf("record %s: %s", w.RecordID, w.Reason)
}

// Sheet is the marking sheet of a class on a day: one entry per enrolled student,
// prefilled from the existing record or defaulting to present.
type Sheet struct {
	ClassID string  `json:"class_id"`
	Date    string  `json:"date"`
	Exists  bool    `json:"exists"`
	Entries []Entry `json:"entries"`
}
