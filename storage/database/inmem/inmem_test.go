package inmemdb

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/user"
)

// Wednesday
var seedNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

func seededDB(t *testing.T) *DB {
	t.Helper()
	db := Open()
	Seed(db, SeedOptions{Days: 14, Now: seedNow, Rand: rand.New(rand.NewSource(42))})
	return db
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)

	users, err := NewUserRepository(db).QueryUsers(ctx, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids)

	classes, err := NewClassRepository(db).QueryClasses(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, classes, 3)

	records, err := NewAttendanceRepository(db).QueryRecords(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	byID := make(map[string]class.Class)
	for _, c := range classes {
		byID[c.ID] = c
	}
	for _, rec := range records {
		day, err := rec.Day()
		require.NoError(t, err)
		cls := byID[rec.ClassID]

		assert.True(t, day.Before(seedNow.Truncate(24*time.Hour)), "today is never generated")
		assert.NotEqual(t, time.Saturday, day.Weekday())
		assert.NotEqual(t, time.Sunday, day.Weekday())
		assert.True(t, cls.MeetsOn(day.Weekday()), "%s is not scheduled on %s", rec.ID, day.Weekday())
		assert.Equal(t, attendance.RecordID(rec.ClassID, rec.Date), rec.ID)
		assert.Equal(t, cls.TeacherID, rec.CreatedBy)
		require.Len(t, rec.Entries, len(cls.StudentIDs))
		for _, e := range rec.Entries {
			assert.True(t, e.Status.Valid())
			if e.Status == attendance.StatusPresent {
				assert.Empty(t, e.Notes)
			} else {
				assert.Equal(t, autoNote, e.Notes)
			}
		}
	}

	notifs, err := NewNotificationRepository(db).QueryNotifications(ctx, notification.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, notifs, 3)
}

func TestGenerateRecords_Schedule(t *testing.T) {
	classes := seedClasses()
	// 2024-05-13 (Mon) .. 2024-05-19 (Sun)
	records := GenerateRecords(classes, SeedOptions{Days: 7, Now: time.Date(2024, time.May, 20, 8, 0, 0, 0, time.UTC), Rand: rand.New(rand.NewSource(1))})

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	assert.ElementsMatch(t, []string{
		"1-2024-05-13", "1-2024-05-15", "1-2024-05-17",
		"2-2024-05-13", "2-2024-05-16",
		"3-2024-05-14", "3-2024-05-16",
	}, ids)
}

func TestGenerateRecords_Distribution(t *testing.T) {
	cls := class.Class{ID: "x", TeacherID: "t", StudentIDs: make([]string, 1000)}
	for i := range cls.StudentIDs {
		cls.StudentIDs[i] = string(rune('a'+i%26)) + string(rune('0'+i%10))
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		cls.Schedule = append(cls.Schedule, class.ScheduleSlot{Day: d})
	}
	records := GenerateRecords([]class.Class{cls}, SeedOptions{Days: 7, Now: seedNow, Rand: rand.New(rand.NewSource(7))})
	counts := attendance.Tally(records)

	total := float64(counts.Total())
	require.Equal(t, 5000.0, total) // five weekdays
	assert.InDelta(t, 0.80, float64(counts.Present)/total, 0.03)
	assert.InDelta(t, 0.10, float64(counts.Late)/total, 0.03)
	assert.InDelta(t, 0.05, float64(counts.Absent)/total, 0.03)
	assert.InDelta(t, 0.05, float64(counts.Excused)/total, 0.03)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(seededDB(t))

	usr, err := repo.GetUserByEmail(ctx, "jessica.brown@school.edu")
	require.NoError(t, err)
	assert.Equal(t, "4", usr.ID)
	assert.Equal(t, user.RoleTeacher, usr.Role)

	_, err = repo.GetUserByID(ctx, "42")
	assert.Equal(t, user.ErrNotFound, err)

	_, err = repo.GetUserByEmail(ctx, "nobody@school.edu")
	assert.Equal(t, user.ErrNotFound, err)

	// returned users are copies
	usr.Teacher.Subjects[0] = "Chemistry"
	again, err := repo.GetUserByID(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", again.Teacher.Subjects[0])

	tests := []struct {
		name    string
		filter  user.QueryFilter
		wantIDs []string
	}{
		{"role", user.QueryFilter{Role: user.RoleStudent}, []string{"1", "2", "3", "7", "8"}},
		{"search", user.QueryFilter{Search: "miller"}, []string{"5"}},
		{"ids", user.QueryFilter{IDs: []string{"8", "4"}, Role: user.RoleStudent}, []string{"8"}},
		{"no match", user.QueryFilter{Search: "zzz"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users, err := repo.QueryUsers(ctx, &tc.filter)
			require.NoError(t, err)
			ids := make([]string, 0)
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestClassRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewClassRepository(seededDB(t))

	cls, err := repo.GetClass(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "English", cls.Name)

	_, err = repo.GetClass(ctx, "9")
	assert.Equal(t, class.ErrNotFound, err)

	cls.StudentIDs[0] = "99"
	again, _ := repo.GetClass(ctx, "2")
	assert.Equal(t, []string{"3", "7"}, again.StudentIDs)

	mine, err := repo.QueryClasses(ctx, &class.QueryFilter{TeacherID: "4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, class.IDs(mine))

	enrolled, err := repo.QueryClasses(ctx, &class.QueryFilter{StudentID: "7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, class.IDs(enrolled))
}

func TestAttendanceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(Open())

	_, err := repo.GetRecord(ctx, "1", "2024-05-13")
	assert.Equal(t, attendance.ErrNotFound, err)

	rec := attendance.Record{
		ClassID: "1",
		Date:    "2024-05-13",
		Entries: []attendance.Entry{{StudentID: "1", Status: attendance.StatusPresent}},
	}
	saved, err := repo.SaveRecord(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "1-2024-05-13", saved.ID)

	_, err = repo.SaveRecord(ctx, attendance.Record{
		ClassID: "2",
		Date:    "2024-05-10",
		Entries: []attendance.Entry{{StudentID: "3", Status: attendance.StatusAbsent}},
	})
	require.NoError(t, err)

	// replace as a whole
	rec.Entries = []attendance.Entry{{StudentID: "2", Status: attendance.StatusLate}}
	_, err = repo.SaveRecord(ctx, rec)
	require.NoError(t, err)

	got, err := repo.GetRecord(ctx, "1", "2024-05-13")
	require.NoError(t, err)
	assert.Equal(t, rec.Entries, got.Entries)

	got.Entries[0].Status = attendance.StatusExcused
	again, _ := repo.GetRecord(ctx, "1", "2024-05-13")
	assert.Equal(t, attendance.StatusLate, again.Entries[0].Status)

	all, err := repo.QueryRecords(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2-2024-05-10", all[0].ID)

	tests := []struct {
		name    string
		filter  attendance.QueryFilter
		wantIDs []string
	}{
		{"student", attendance.QueryFilter{StudentID: "2"}, []string{"1-2024-05-13"}},
		{"student without records", attendance.QueryFilter{StudentID: "1"}, []string{}},
		{"classes", attendance.QueryFilter{ClassIDs: []string{"2", "3"}}, []string{"2-2024-05-10"}},
		{"empty classes", attendance.QueryFilter{ClassIDs: []string{}}, []string{}},
		{"class and student", attendance.QueryFilter{ClassIDs: []string{"2"}, StudentID: "2"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := repo.QueryRecords(ctx, &tc.filter)
			require.NoError(t, err)
			ids := make([]string, 0)
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(Open())
	now := time.Now().UTC()

	require.NoError(t, repo.CreateNotifications(ctx,
		notification.Notification{ID: "a", UserID: "1", CreatedAt: now.Add(-time.Hour)},
		notification.Notification{ID: "b", UserID: "1", CreatedAt: now},
		notification.Notification{ID: "c", UserID: "2", CreatedAt: now},
	))
	require.NoError(t, repo.CreateNotifications(ctx, notification.Notification{ID: "d", UserID: "1", CreatedAt: now}))

	notifs, err := repo.QueryNotifications(ctx, notification.QueryFilter{UserID: "1"})
	require.NoError(t, err)
	ids := make([]string, 0)
	for _, n := range notifs {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"d", "b", "a"}, ids)

	assert.Equal(t, notification.ErrNotFound, repo.MarkNotificationRead(ctx, "2", "a"))
	require.NoError(t, repo.MarkNotificationRead(ctx, "1", "a"))

	unread, err := repo.QueryNotifications(ctx, notification.QueryFilter{UserID: "1", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}
