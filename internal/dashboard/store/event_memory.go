package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"peoplehub/internal/dashboard/models"
	id "peoplehub/pkg/domain"
)

type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[id.EventID]models.Event
}

func NewEvents() *InMemoryEventStore {
	return &InMemoryEventStore{events: make(map[id.EventID]models.Event)}
}

func (s *InMemoryEventStore) Create(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = *event
	return nil
}

// ListUpcoming returns events starting at or after from, soonest first.
func (s *InMemoryEventStore) ListUpcoming(_ context.Context, from time.Time, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Event
	for _, e := range s.events {
		if !e.StartsAt.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
