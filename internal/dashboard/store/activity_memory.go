package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"peoplehub/internal/dashboard/models"
)

type InMemoryActivityStore struct {
	mu         sync.RWMutex
	activities []models.Activity
}

func NewActivities() *InMemoryActivityStore {
	return &InMemoryActivityStore{}
}

func (s *InMemoryActivityStore) Append(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, *activity)
	return nil
}

// ListRecent returns the newest activities first. An empty kinds matches all.
func (s *InMemoryActivityStore) ListRecent(_ context.Context, kinds []models.ActivityKind, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Activity
	for _, a := range s.activities {
		if len(kinds) == 0 || slices.Contains(kinds, a.Kind) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
