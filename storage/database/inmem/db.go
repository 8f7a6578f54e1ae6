// Package inmemdb is the in-memory store backing every core repository.
package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/user"
)

type (
	DB struct {
		user         *userTable
		class        *classTable
		record       *recordTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}

	// recordTable is keyed by record id, ie. (class, date).
	recordTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}

	notificationTable struct {
		sync.RWMutex
		table []notification.Notification
	}
)

func Open() *DB {
	return &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		class:        &classTable{table: make(map[string]*class.Class)},
		record:       &recordTable{table: make(map[string]*attendance.Record)},
		notification: &notificationTable{},
	}
}
