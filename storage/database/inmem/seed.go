package inmemdb

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/user"
)

const (
	defaultSeedDays = 7
	autoNote        = "Auto-generated note"
	avatarURL       = "https://images.pexels.com/photos/%s/pexels-photo-%s.jpeg?auto=compress&cs=tinysrgb&w=150"
)

// SeedOptions tune the generated attendance history.
type SeedOptions struct {
	Days int        // past days to generate records for; defaults to 7
	Now  time.Time  // defaults to time.Now
	Rand *rand.Rand // defaults to a time seeded source
}

// Seed fills db with the demo school: 5 students, 2 teachers, 1 admin, 3 classes,
// their attendance over the past days and a few notifications.
func Seed(db *DB, opts SeedOptions) {
	if opts.Days <= 0 {
		opts.Days = defaultSeedDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	SeedDirectory(db, opts.Now)

	records := GenerateRecords(seedClasses(), opts)
	db.record.Lock()
	defer db.record.Unlock()
	for i := range records {
		rec := records[i]
		db.record.table[rec.ID] = &rec
	}
}

// SeedDirectory fills db with the demo users, classes and notifications, without any attendance.
func SeedDirectory(db *DB, now time.Time) {
	(&userRepository{db: db.user}).createUsers(seedUsers()...)
	(&classRepository{db: db.class}).createClasses(seedClasses()...)

	day := 24 * time.Hour
	now = now.UTC()
	db.notification.Lock()
	defer db.notification.Unlock()
	db.notification.table = append(db.notification.table,
		notification.Notification{
			ID:        "1",
			UserID:    "1",
			Message:   "You have been marked absent in Mathematics class",
			CreatedAt: now.Add(-day),
			Type:      notification.TypeWarning,
		},
		notification.Notification{
			ID:        "2",
			UserID:    "4",
			Message:   "Attendance for Mathematics class 10A has been submitted",
			Read:      true,
			CreatedAt: now.Add(-2 * day),
			Type:      notification.TypeSuccess,
		},
		notification.Notification{
			ID:        "3",
			UserID:    "6",
			Message:   "Monthly attendance report is ready for review",
			CreatedAt: now.Add(-3 * day),
			Type:      notification.TypeInfo,
		},
	)
}

// GenerateRecords builds a record per class for each scheduled weekday of the past opts.Days days,
// today excluded. Each student is present 80% of the time, late 10%, absent 5% and excused 5%.
func GenerateRecords(classes []class.Class, opts SeedOptions) []attendance.Record {
	records := make([]attendance.Record, 0)
	for _, cls := range classes {
		for i := opts.Days; i > 0; i-- {
			date := opts.Now.AddDate(0, 0, -i)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday || !cls.MeetsOn(wd) {
				continue
			}
			day := date.Format(core.DateLayout)
			rec := attendance.Record{
				ID:        attendance.RecordID(cls.ID, day),
				ClassID:   cls.ID,
				Date:      day,
				CreatedBy: cls.TeacherID,
				Entries:   make([]attendance.Entry, 0, len(cls.StudentIDs)),
			}
			for _, id := range cls.StudentIDs {
				entry := attendance.Entry{StudentID: id, Status: randomStatus(opts.Rand)}
				if entry.Status != attendance.StatusPresent {
					entry.Notes = autoNote
				}
				rec.Entries = append(rec.Entries, entry)
			}
			records = append(records, rec)
		}
	}
	return records
}

func randomStatus(r *rand.Rand) attendance.Status {
	switch n := r.Float64(); {
	case n < 0.8:
		return attendance.StatusPresent
	case n < 0.9:
		return attendance.StatusLate
	case n < 0.95:
		return attendance.StatusAbsent
	default:
		return attendance.StatusExcused
	}
}

func avatar(photoID string) string {
	return fmt.Sprintf(avatarURL, photoID, photoID)
}

func seedUsers() []user.User {
	student := func(id, name, email, photo, no, cls, section string) user.User {
		return user.User{
			ID:      id,
			Name:    name,
			Email:   email,
			Role:    user.RoleStudent,
			Avatar:  avatar(photo),
			Student: &user.StudentProfile{StudentNo: no, Class: cls, Section: section},
		}
	}
	return []user.User{
		student("1", "John Smith", "john.smith@school.edu", "1516680", "S10001", "10", "A"),
		student("2", "Emily Johnson", "emily.johnson@school.edu", "415829", "S10002", "10", "A"),
		student("3", "Michael Williams", "michael.williams@school.edu", "1222271", "S10003", "10", "B"),
		{
			ID:     "4",
			Name:   "Jessica Brown",
			Email:  "jessica.brown@school.edu",
			Role:   user.RoleTeacher,
			Avatar: avatar("774909"),
			Teacher: &user.TeacherProfile{
				EmployeeNo: "T2001",
				Subjects:   []string{"Mathematics", "Physics"},
				Classes:    []string{"10A", "11A"},
			},
		},
		{
			ID:     "5",
			Name:   "David Miller",
			Email:  "david.miller@school.edu",
			Role:   user.RoleTeacher,
			Avatar: avatar("220453"),
			Teacher: &user.TeacherProfile{
				EmployeeNo: "T2002",
				Subjects:   []string{"English", "History"},
				Classes:    []string{"10B", "11B"},
			},
		},
		{
			ID:     "6",
			Name:   "Sarah Wilson",
			Email:  "sarah.wilson@school.edu",
			Role:   user.RoleAdmin,
			Avatar: avatar("1036623"),
			Admin:  &user.AdminProfile{EmployeeNo: "A3001", Department: "Administration"},
		},
		student("7", "Olivia Davis", "olivia.davis@school.edu", "1239291", "S10004", "10", "B"),
		student("8", "Daniel Taylor", "daniel.taylor@school.edu", "1681010", "S10005", "11", "A"),
	}
}

func seedClasses() []class.Class {
	slot := func(day time.Weekday, start, end string) class.ScheduleSlot {
		return class.ScheduleSlot{Day: day, StartTime: start, EndTime: end}
	}
	return []class.Class{
		{
			ID:         "1",
			Name:       "Mathematics",
			Section:    "10A",
			TeacherID:  "4",
			StudentIDs: []string{"1", "2"},
			Schedule: []class.ScheduleSlot{
				slot(time.Monday, "09:00", "10:00"),
				slot(time.Wednesday, "11:00", "12:00"),
				slot(time.Friday, "09:00", "10:00"),
			},
		},
		{
			ID:         "2",
			Name:       "English",
			Section:    "10B",
			TeacherID:  "5",
			StudentIDs: []string{"3", "7"},
			Schedule: []class.ScheduleSlot{
				slot(time.Monday, "11:00", "12:00"),
				slot(time.Thursday, "09:00", "10:00"),
			},
		},
		{
			ID:         "3",
			Name:       "Physics",
			Section:    "11A",
			TeacherID:  "4",
			StudentIDs: []string{"8"},
			Schedule: []class.ScheduleSlot{
				slot(time.Tuesday, "09:00", "10:00"),
				slot(time.Thursday, "11:00", "12:00"),
			},
		},
	}
}
