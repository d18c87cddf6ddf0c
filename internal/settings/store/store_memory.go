package store

import (
	"context"
	"sync"

	"peoplehub/internal/settings/models"
	"peoplehub/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, sentinel.ErrNotFound
	}
	out := *s.settings
	return &out, nil
}

func (s *InMemoryStore) Put(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *settings
	s.settings = &stored
	return nil
}
