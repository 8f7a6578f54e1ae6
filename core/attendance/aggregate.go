package attendance

import (
	"sort"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

const monthLayout = "January 2006"

// Summarize computes the attendance summary of the student over records.
// TotalClasses counts the records holding an entry for the student, not len(records).
func Summarize(studentID string, records []Record) Summary {
	sum := Summary{StudentID: studentID}
	for _, rec := range records {
		entry, ok := rec.Entry(studentID)
		if !ok {
			continue
		}
		if sum.add(entry.Status) {
			sum.TotalClasses++
		}
	}
	sum.Percentage = core.Percent(sum.Present, sum.TotalClasses)
	return sum
}

// RateForClass computes the share of present entries over every entry recorded for the class.
// Entries of an unknown status are left out of both sides.
func RateForClass(classID string, records []Record) ClassRate {
	classRecords := ByClass(records, classID)
	present, total := presentRatio(classRecords)
	return ClassRate{
		ClassID:        classID,
		AttendanceRate: core.Percent(present, total),
		TotalSessions:  len(classRecords),
	}
}

// OverallRate is the share of present entries across all records.
func OverallRate(records []Record) int {
	return core.Percent(presentRatio(records))
}

// presentRatio counts present entries over every entry of a known status.
func presentRatio(records []Record) (present, total int) {
	counts := Tally(records)
	return counts.Present, counts.Total()
}

// MonthlyReports groups the student's records dated within [from, to] by calendar month,
// in chronological order. Records with malformed dates are skipped and reported.
func MonthlyReports(studentID string, from, to time.Time, records []Record) ([]MonthlyReport, []DataWarning) {
	inRange, warnings := InRange(ByStudent(records, studentID), from, to)

	type month struct {
		year int
		mon  time.Month
	}
	groups := make(map[month]*MonthlyReport)
	keys := make([]month, 0)
	for _, rec := range inRange {
		entry, _ := rec.Entry(studentID) // ByStudent only keeps records with an entry
		if !entry.Status.Valid() {
			continue
		}
		day, _ := rec.Day() // InRange only keeps parseable dates
		key := month{year: day.Year(), mon: day.Month()}
		report, ok := groups[key]
		if !ok {
			report = &MonthlyReport{
				Month:  day.Format(monthLayout),
				Period: day.Format("2006-01"),
			}
			groups[key] = report
			keys = append(keys, key)
		}
		report.add(entry.Status)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].mon < keys[j].mon
	})

	reports := make([]MonthlyReport, 0, len(keys))
	for _, key := range keys {
		report := groups[key]
		report.Total = report.Counts.Total()
		report.Percentage = core.Percent(report.Present, report.Total)
		reports = append(reports, *report)
	}
	return reports, warnings
}

// Tally counts every entry of every record per status, with no student filtering.
func Tally(records []Record) Counts {
	var counts Counts
	for _, rec := range records {
		for _, e := range rec.Entries {
			counts.add(e.Status)
		}
	}
	return counts
}
