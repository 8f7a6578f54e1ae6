package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/class"
)

type classRepository struct {
	db *classTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) QueryClasses(_ context.Context, filter *class.QueryFilter) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if filter == nil || filter.Match(*c) {
			classes = append(classes, cloneClass(*c))
		}
	}
	sort.Slice(classes, func(i, j int) bool { return lessID(classes[i].ID, classes[j].ID) })
	return classes, nil
}

func (repo *classRepository) GetClass(_ context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return cloneClass(*c), nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) createClasses(classes ...class.Class) {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, c := range classes {
		c := cloneClass(c)
		repo.db.table[c.ID] = &c
	}
}

func cloneClass(c class.Class) class.Class {
	c.StudentIDs = append([]string(nil), c.StudentIDs...)
	c.Schedule = append([]class.ScheduleSlot(nil), c.Schedule...)
	return c
}
