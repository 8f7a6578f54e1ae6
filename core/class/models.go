package class

import "time"

type ScheduleSlot struct {
	Day       time.Weekday `json:"day"`
	StartTime string       `json:"start_time"` // HH:MM
	EndTime   string       `json:"end_time"`   // HH:MM
}

type Class struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Section    string         `json:"section"`
	TeacherID  string         `json:"teacher_id"`
	StudentIDs []string       `json:"students"`
	Schedule   []ScheduleSlot `json:"schedule"`
}

// Enrolled reports whether the student is on the class roll.
func (c Class) Enrolled(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// MeetsOn reports whether the class is scheduled on the weekday.
func (c Class) MeetsOn(day time.Weekday) bool {
	for _, s := range c.Schedule {
		if s.Day == day {
			return true
		}
	}
	return false
}

type QueryFilter struct {
	TeacherID string
	StudentID string
}

func (qf QueryFilter) Match(c Class) bool {
	if qf.TeacherID != "" && c.TeacherID != qf.TeacherID {
		return false
	}
	if qf.StudentID != "" && !c.Enrolled(qf.StudentID) {
		return false
	}
	return true
}

// IDs returns the ids of classes.
func IDs(classes []Class) []string {
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}
