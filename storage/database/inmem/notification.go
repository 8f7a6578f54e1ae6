package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, filter notification.QueryFilter) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notifs := make([]notification.Notification, 0)
	for i := len(repo.db.table) - 1; i >= 0; i-- {
		if n := repo.db.table[i]; filter.Match(n) {
			notifs = append(notifs, n)
		}
	}
	// latest inserts first on equal times
	sort.SliceStable(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return notifs, nil
}

func (repo *notificationRepository) CreateNotifications(_ context.Context, notifs ...notification.Notification) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, notifs...)
	return nil
}

func (repo *notificationRepository) MarkNotificationRead(_ context.Context, userID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.table {
		if repo.db.table[i].ID == id && repo.db.table[i].UserID == userID {
			repo.db.table[i].Read = true
			return nil
		}
	}
	return notification.ErrNotFound
}
