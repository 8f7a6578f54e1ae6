package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

// query returns copies of all users, ordered by id.
func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, cloneUser(*u))
	}
	sort.Slice(users, func(i, j int) bool { return lessID(users[i].ID, users[j].ID) })
	return users
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()
	if filter == nil {
		return users, nil
	}
	filtered := make([]user.User, 0)
	for _, u := range users {
		if filter.Match(u) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return cloneUser(*usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) createUsers(users ...user.User) {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, u := range users {
		u := cloneUser(u)
		repo.db.table[u.ID] = &u
	}
}

func cloneUser(u user.User) user.User {
	if u.Student != nil {
		p := *u.Student
		u.Student = &p
	}
	if u.Teacher != nil {
		p := *u.Teacher
		p.Subjects = append([]string(nil), p.Subjects...)
		p.Classes = append([]string(nil), p.Classes...)
		u.Teacher = &p
	}
	if u.Admin != nil {
		p := *u.Admin
		u.Admin = &p
	}
	return u
}

// lessID orders numeric ids numerically ("2" < "10"), falling back to lexical order.
func lessID(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
