package account

import (
	"context"
	"sort"
	"sync"
	"time"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Postgres store's constraints: unique email and
// copy-on-read records.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
	byEmail  map[string]id.AccountID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[id.AccountID]*models.Account),
		byEmail:  make(map[string]id.AccountID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return sentinel.ErrConflict
	}
	stored := *account
	s.accounts[account.ID] = &stored
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.accounts[accountID]
	return &out, nil
}

func (s *InMemoryStore) FindByPhone(_ context.Context, phone string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *models.Account
	for _, a := range s.accounts {
		if a.Phone == phone && (match == nil || a.CreatedAt.Before(match.CreatedAt)) {
			match = a
		}
	}
	if match == nil {
		return nil, sentinel.ErrNotFound
	}
	out := *match
	return &out, nil
}

func (s *InMemoryStore) Update(_ context.Context, accountID id.AccountID, patch models.AccountPatch, now time.Time) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	patch.Apply(a, now)
	out := *a
	return &out, nil
}

// List returns accounts ordered by creation time.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}
