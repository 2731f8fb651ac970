package repository

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/google/uuid"
)

// MemoryRepository keeps documents in process memory.
//
// Meant for local development and tests: nothing survives a restart.
type MemoryRepository struct {
	mu          sync.RWMutex
	now         func() time.Time
	collections map[string]map[string]model.Fields
}

// NewMemoryRepository creates an empty repository. now is the store clock;
// nil means time.Now in UTC.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryRepository{
		now:         now,
		collections: map[string]map[string]model.Fields{},
	}
}

func (r *MemoryRepository) List(_ context.Context, c model.Collection) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]model.Document, 0, len(r.collections[c.Name]))
	for id, fields := range r.collections[c.Name] {
		docs = append(docs, model.Document{ID: id, Fields: fields.Clone()})
	}

	return model.SortDocuments(docs, c.SortField, c.Order), nil
}

func (r *MemoryRepository) Create(_ context.Context, c model.Collection, fields model.Fields) (model.Document, error) {
	stored := fields.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored[c.SortField] = r.now()

	docs, ok := r.collections[c.Name]
	if !ok {
		docs = map[string]model.Fields{}
		r.collections[c.Name] = docs
	}

	id := uuid.NewString()
	docs[id] = stored

	return model.Document{ID: id, Fields: stored.Clone()}, nil
}

func (r *MemoryRepository) Update(_ context.Context, c model.Collection, id string, fields model.Fields) error {
	if len(fields) == 0 {
		return documentError(c, id, ErrEmptyUpdate)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.collections[c.Name][id]
	if !ok {
		return documentError(c, id, ErrNotFound)
	}

	r.collections[c.Name][id] = current.Merge(fields)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, c model.Collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collections[c.Name], id)
	return nil
}

func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

// Get returns one stored document. Not part of DocumentRepository; tests
// use it to inspect stored state directly.
func (r *MemoryRepository) Get(c model.Collection, id string) (model.Fields, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.collections[c.Name][id]
	if !ok {
		return nil, false
	}
	return fields.Clone(), true
}
