package class

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("class not found")

type (
	Repository interface {
		// QueryClasses applies AND operation on available QueryFilter fields; a nil filter returns all classes.
		QueryClasses(ctx context.Context, filter *QueryFilter) ([]Class, error)
		GetClass(ctx context.Context, id string) (Class, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, filter)
}

// StudentIDs returns the distinct students enrolled in any of the classes, in first-seen order.
func StudentIDs(classes []Class) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, c := range classes {
		for _, id := range c.StudentIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
