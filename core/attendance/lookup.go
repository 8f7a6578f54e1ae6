package attendance

import (
	"sort"
	"strconv"
	"time"
)

// ByStudent returns the records holding an entry for the student.
func ByStudent(records []Record, studentID string) []Record {
	found := make([]Record, 0)
	for _, rec := range records {
		if _, ok := rec.Entry(studentID); ok {
			found = append(found, rec)
		}
	}
	return found
}

// ByClass returns the records of the class.
func ByClass(records []Record, classID string) []Record {
	return ByClasses(records, classID)
}

// ByClasses returns the records of any of the classes.
func ByClasses(records []Record, classIDs ...string) []Record {
	ids := make(map[string]struct{}, len(classIDs))
	for _, id := range classIDs {
		ids[id] = struct{}{}
	}
	found := make([]Record, 0)
	for _, rec := range records {
		if _, ok := ids[rec.ClassID]; ok {
			found = append(found, rec)
		}
	}
	return found
}

// InRange returns the records dated within [from, to], both days inclusive.
// A zero from or to leaves that side unbounded.
// Records whose date does not parse are left out and reported.
func InRange(records []Record, from, to time.Time) ([]Record, []DataWarning) {
	from, to = truncateDay(from), truncateDay(to)
	found := make([]Record, 0, len(records))
	var warnings []DataWarning
	for _, rec := range records {
		day, err := rec.Day()
		if err != nil {
			warnings = append(warnings, DataWarning{RecordID: rec.ID, Reason: "unparseable date " + strconv.Quote(rec.Date)})
			continue
		}
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !to.IsZero() && day.After(to) {
			continue
		}
		found = append(found, rec)
	}
	return found, warnings
}

// SortByDateDesc returns a copy of records, most recent first.
// Records with malformed dates sort last, in their original order.
func SortByDateDesc(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, erri := sorted[i].Day()
		dj, errj := sorted[j].Day()
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		}
		return di.After(dj)
	})
	return sorted
}

// Recent returns at most n records, most recent first.
func Recent(records []Record, n int) []Record {
	sorted := SortByDateDesc(records)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
