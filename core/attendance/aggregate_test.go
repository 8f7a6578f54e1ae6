package attendance

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(classID, date string, entries ...Entry) Record {
	return Record{ID: RecordID(classID, date), ClassID: classID, Date: date, Entries: entries}
}

func ent(studentID string, s Status) Entry {
	return Entry{StudentID: studentID, Status: s}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarize(t *testing.T) {
	records := []Record{
		rec("1", "2024-01-08", ent("1", StatusPresent), ent("2", StatusAbsent)),
		rec("1", "2024-01-10", ent("1", StatusPresent), ent("2", StatusPresent)),
		rec("1", "2024-02-05", ent("1", StatusAbsent), ent("2", StatusLate)),
		rec("2", "2024-01-08", ent("3", StatusPresent)),
		rec("2", "2024-01-11", ent("2", "sick")),
	}

	tests := []struct {
		name      string
		studentID string
		records   []Record
		want      Summary
	}{
		{name: "no records", studentID: "1", want: Summary{StudentID: "1"}},
		{name: "not in any record", studentID: "9", records: records, want: Summary{StudentID: "9"}},
		{
			name:      "rounded up",
			studentID: "1",
			records:   records,
			want:      Summary{StudentID: "1", TotalClasses: 3, Counts: Counts{Present: 2, Absent: 1}, Percentage: 67},
		},
		{
			name:      "unknown status not counted",
			studentID: "2",
			records:   records,
			want:      Summary{StudentID: "2", TotalClasses: 3, Counts: Counts{Present: 1, Absent: 1, Late: 1}, Percentage: 33},
		},
		{
			name:      "late is not present",
			studentID: "1",
			records:   []Record{rec("1", "2024-01-08", ent("1", StatusLate)), rec("1", "2024-01-09", ent("1", StatusExcused))},
			want:      Summary{StudentID: "1", TotalClasses: 2, Counts: Counts{Late: 1, Excused: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.studentID, tt.records)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.TotalClasses, got.Counts.Total())
		})
	}
}

func TestRateForClass(t *testing.T) {
	records := []Record{
		rec("1", "2024-01-08", ent("1", StatusPresent), ent("2", StatusAbsent)),
		rec("1", "2024-01-10", ent("1", StatusPresent), ent("2", StatusPresent)),
		rec("1", "2024-02-05", ent("1", StatusAbsent), ent("2", StatusLate)),
		rec("2", "2024-01-08", ent("3", StatusPresent), ent("7", StatusExcused)),
		rec("3", "2024-01-09", ent("1", StatusPresent), ent("2", StatusPresent), ent("8", StatusAbsent)),
		rec("4", "2024-01-09"),
	}

	tests := []struct {
		classID string
		want    ClassRate
	}{
		{classID: "1", want: ClassRate{ClassID: "1", AttendanceRate: 50, TotalSessions: 3}},
		{classID: "2", want: ClassRate{ClassID: "2", AttendanceRate: 50, TotalSessions: 1}},
		{classID: "3", want: ClassRate{ClassID: "3", AttendanceRate: 67, TotalSessions: 1}},
		{classID: "4", want: ClassRate{ClassID: "4", AttendanceRate: 0, TotalSessions: 1}},
		{classID: "5", want: ClassRate{ClassID: "5"}},
	}
	for _, tt := range tests {
		t.Run("class "+tt.classID, func(t *testing.T) {
			assert.Equal(t, tt.want, RateForClass(tt.classID, records))
		})
	}

	assert.Equal(t, 55, OverallRate(records)) // 6 of 11
	assert.Equal(t, 0, OverallRate(nil))
}

func TestMonthlyReports(t *testing.T) {
	records := []Record{
		rec("1", "2024-02-05", ent("1", StatusAbsent)),
		rec("1", "2024-01-10", ent("1", StatusPresent)),
		rec("1", "2023-12-20", ent("1", StatusLate)),
		rec("1", "2024-01-08", ent("1", StatusPresent), ent("2", StatusAbsent)),
		rec("2", "2024-01-09", ent("2", StatusPresent)),
		rec("1", "08/01/2024", ent("1", StatusPresent)),
	}

	t.Run("chronological across years", func(t *testing.T) {
		got, warnings := MonthlyReports("1", time.Time{}, time.Time{}, records)
		require.Len(t, got, 3)
		assert.Equal(t, MonthlyReport{Month: "December 2023", Period: "2023-12", Counts: Counts{Late: 1}, Total: 1}, got[0])
		assert.Equal(t, MonthlyReport{Month: "January 2024", Period: "2024-01", Counts: Counts{Present: 2}, Total: 2, Percentage: 100}, got[1])
		assert.Equal(t, MonthlyReport{Month: "February 2024", Period: "2024-02", Counts: Counts{Absent: 1}, Total: 1}, got[2])
		assert.Equal(t, []DataWarning{{RecordID: "1-08/01/2024", Reason: `unparseable date "08/01/2024"`}}, warnings)
	})

	t.Run("bounded", func(t *testing.T) {
		got, _ := MonthlyReports("1", day("2024-01-10"), day("2024-02-04"), records)
		require.Len(t, got, 1)
		assert.Equal(t, "January 2024", got[0].Month)
		assert.Equal(t, 1, got[0].Total)
	})

	t.Run("other students ignored", func(t *testing.T) {
		got, _ := MonthlyReports("2", time.Time{}, time.Time{}, records)
		require.Len(t, got, 1)
		assert.Equal(t, Counts{Present: 1, Absent: 1}, got[0].Counts)
		assert.Equal(t, 50, got[0].Percentage)
	})

	t.Run("empty", func(t *testing.T) {
		got, warnings := MonthlyReports("1", day("2025-01-01"), day("2025-12-31"), records)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Len(t, warnings, 1)
	})
}

func TestTally(t *testing.T) {
	records := []Record{
		rec("1", "2024-01-08", ent("1", StatusPresent), ent("2", StatusAbsent)),
		rec("2", "2024-01-08", ent("3", StatusLate), ent("7", StatusExcused), ent("8", "")),
		rec("3", "2024-01-09", ent("1", StatusPresent)),
	}
	assert.Equal(t, Counts{Present: 2, Absent: 1, Late: 1, Excused: 1}, Tally(records))
	assert.Equal(t, Counts{}, Tally(nil))
}

func TestUnknownStatusesSkipped(t *testing.T) {
	records := []Record{
		rec("1", "2024-01-08", ent("1", StatusPresent), ent("2", "sick")),
		rec("1", "2024-01-10", ent("1", StatusAbsent), ent("2", "")),
		rec("1", "2024-02-05", ent("2", "sick")),
	}

	assert.Equal(t, ClassRate{ClassID: "1", AttendanceRate: 50, TotalSessions: 3}, RateForClass("1", records))
	assert.Equal(t, 50, OverallRate(records))
	assert.Equal(t, 0, OverallRate([]Record{rec("1", "2024-01-08", ent("2", "sick"))}))

	reports, _ := MonthlyReports("2", time.Time{}, time.Time{}, records)
	assert.Empty(t, reports, "no row for months without a known status")

	reports, _ = MonthlyReports("1", time.Time{}, time.Time{}, records)
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Total)
}

// randomRecords builds a collection over a few classes and months, with some
// unknown statuses and malformed dates thrown in.
func randomRecords(r *rand.Rand) []Record {
	statuses := []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused, "sick"}
	students := []string{"1", "2", "3"}
	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	n := r.Intn(30)
	records := make([]Record, 0, n+1)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, r.Intn(120)).Format("2006-01-02")
		var entries []Entry
		for _, id := range students {
			if r.Intn(4) > 0 {
				entries = append(entries, ent(id, statuses[r.Intn(len(statuses))]))
			}
		}
		records = append(records, rec(fmt.Sprint(r.Intn(3)+1), date, entries...))
	}
	if r.Intn(3) == 0 {
		records = append(records, rec("1", "2024-02-30", ent("1", StatusPresent)))
	}
	return records
}

func TestAggregates_orderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		records := randomRecords(r)
		shuffled := make([]Record, len(records))
		copy(shuffled, records)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		for _, id := range []string{"1", "2", "3"} {
			require.Equal(t, Summarize(id, records), Summarize(id, shuffled), "collection %d, student %s", i, id)
			want, _ := MonthlyReports(id, time.Time{}, time.Time{}, records)
			got, _ := MonthlyReports(id, time.Time{}, time.Time{}, shuffled)
			require.Equal(t, want, got, "collection %d, student %s", i, id)
		}
		require.Equal(t, RateForClass("1", records), RateForClass("1", shuffled), "collection %d", i)
		require.Equal(t, Tally(records), Tally(shuffled), "collection %d", i)
	}
}

func TestMonthlyReports_matchSummary(t *testing.T) {
	ranges := []struct {
		from, to time.Time
	}{
		{},
		{from: day("2023-12-01")},
		{to: day("2024-01-15")},
		{from: day("2023-12-10"), to: day("2024-02-05")},
	}

	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		records := randomRecords(r)
		for _, rg := range ranges {
			for _, id := range []string{"1", "2", "3"} {
				reports, _ := MonthlyReports(id, rg.from, rg.to, records)
				inRange, _ := InRange(records, rg.from, rg.to)
				sum := Summarize(id, inRange)

				var counts Counts
				total := 0
				for _, m := range reports {
					counts.Present += m.Present
					counts.Absent += m.Absent
					counts.Late += m.Late
					counts.Excused += m.Excused
					total += m.Total
					require.True(t, m.Total > 0, "empty month row %s", m.Period)
				}
				require.Equal(t, sum.Counts, counts, "collection %d, student %s, range %v", i, id, rg)
				require.Equal(t, sum.TotalClasses, total, "collection %d, student %s, range %v", i, id, rg)
			}
		}
	}
}
