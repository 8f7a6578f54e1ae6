package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *recordTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.record}
}

// QueryRecords returns copies ordered by date, then class.
func (repo *attendanceRepository) QueryRecords(_ context.Context, filter *attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var classIDs map[string]struct{}
	if filter != nil && filter.ClassIDs != nil {
		classIDs = make(map[string]struct{}, len(filter.ClassIDs))
		for _, id := range filter.ClassIDs {
			classIDs[id] = struct{}{}
		}
	}

	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if classIDs != nil {
			if _, ok := classIDs[rec.ClassID]; !ok {
				continue
			}
		}
		if filter != nil && filter.StudentID != "" {
			if _, ok := rec.Entry(filter.StudentID); !ok {
				continue
			}
		}
		records = append(records, rec.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return lessID(records[i].ClassID, records[j].ClassID)
	})
	return records, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, classID, date string) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[attendance.RecordID(classID, date)]; ok {
		return rec.Clone(), nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) SaveRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec = rec.Clone()
	if rec.ID == "" {
		rec.ID = attendance.RecordID(rec.ClassID, rec.Date)
	}
	repo.db.table[attendance.RecordID(rec.ClassID, rec.Date)] = &rec
	return rec.Clone(), nil
}
