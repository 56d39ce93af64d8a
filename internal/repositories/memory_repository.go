package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"illustraBack/internal/models"
)

// MemoryRepository keeps documents in process memory, in insertion order.
// It backs local development and tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	newID       func() string
}

type memoryCollection struct {
	order []string
	docs  map[string]map[string]any
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		collections: make(map[string]*memoryCollection),
		newID:       func() string { return uuid.New().String() },
	}
}

func (r *MemoryRepository) collection(name string) *memoryCollection {
	c, ok := r.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]map[string]any)}
		r.collections[name] = c
	}
	return c
}

func (r *MemoryRepository) List(ctx context.Context, collection string, opts ListOptions) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[collection]
	if !ok {
		return []models.Record{}, nil
	}
	recs := make([]models.Record, 0, len(c.order))
	for _, id := range c.order {
		recs = append(recs, withID(id, models.Record(c.docs[id]).Clone()))
	}
	if opts.OrderBy != "" {
		sortByAttribute(recs, opts.OrderBy)
	}
	return recs, nil
}

func (r *MemoryRepository) Get(ctx context.Context, collection, id string) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[collection]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return withID(id, models.Record(doc).Clone()), nil
}

func (r *MemoryRepository) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.collection(collection)
	id := r.newID()
	c.docs[id] = models.Record(data).Data()
	c.order = append(c.order, id)
	return id, nil
}

func (r *MemoryRepository) Update(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[collection]
	if !ok {
		return models.ErrRecordNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return models.ErrRecordNotFound
	}
	for k, v := range models.Record(data).Data() {
		doc[k] = v
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
