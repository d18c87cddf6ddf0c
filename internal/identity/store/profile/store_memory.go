package profile

import (
	"context"
	"sync"
	"time"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in insertion order. Like the Postgres table,
// it does not enforce one profile per owner.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles []*models.Profile
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *p
	s.profiles = append(s.profiles, &stored)
	return nil
}

// FindByOwner returns the earliest profile for owner.
func (s *InMemoryStore) FindByOwner(_ context.Context, owner id.AccountID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.OwnerID == owner {
			out := *p
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, owner id.AccountID, patch models.ProfilePatch, now time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.OwnerID == owner {
			patch.Apply(p, now)
			out := *p
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// CountByOwner is a test hook for the one-profile-per-account property.
func (s *InMemoryStore) CountByOwner(owner id.AccountID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.profiles {
		if p.OwnerID == owner {
			n++
		}
	}
	return n
}
