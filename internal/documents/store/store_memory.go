package store

import (
	"context"
	"sort"
	"sync"

	"peoplehub/internal/documents/models"
	id "peoplehub/pkg/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]models.Document
}

func New() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.DocumentID]models.Document)}
}

func (s *InMemoryStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *InMemoryStore) ListByOwnerCategory(_ context.Context, owner id.AccountID, category models.Category) ([]models.Document, error) {
	return s.filter(func(d models.Document) bool { return d.OwnerID == owner && d.Category == category }), nil
}

func (s *InMemoryStore) ListByCategory(_ context.Context, category models.Category) ([]models.Document, error) {
	return s.filter(func(d models.Document) bool { return d.Category == category }), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]models.Document, error) {
	return s.filter(func(models.Document) bool { return true }), nil
}

// filter returns matching documents newest first.
func (s *InMemoryStore) filter(keep func(models.Document) bool) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0)
	for _, d := range s.docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
