package repositories

import (
	"context"
	"sort"

	"illustraBack/internal/models"
)

// ListOptions controls ordering of a collection listing.
type ListOptions struct {
	// OrderBy names a numeric attribute to sort ascending by. Empty keeps
	// the store's native order.
	OrderBy string
}

// DocumentRepository is the document store client used by every component.
type DocumentRepository interface {
	List(ctx context.Context, collection string, opts ListOptions) ([]models.Record, error)
	Get(ctx context.Context, collection, id string) (models.Record, error)
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, data map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// withID returns data augmented with the store key under models.IDKey.
func withID(id string, data map[string]any) models.Record {
	rec := make(models.Record, len(data)+1)
	for k, v := range data {
		rec[k] = v
	}
	rec[models.IDKey] = id
	return rec
}

// sortByAttribute orders records ascending by a numeric attribute. Records
// missing the attribute sort after the ones that have it; ties keep their
// relative order.
func sortByAttribute(recs []models.Record, attr string) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, okA := models.AsNumber(recs[i][attr])
		b, okB := models.AsNumber(recs[j][attr])
		switch {
		case okA && okB:
			return a < b
		case okA:
			return true
		default:
			return false
		}
	})
}
