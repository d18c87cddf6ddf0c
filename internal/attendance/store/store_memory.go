package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"peoplehub/internal/attendance/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

type dayKey struct {
	account id.AccountID
	date    string
}

// InMemoryStore mirrors the unique (account, work date) index.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.AttendanceID]*models.Record
	byDay   map[dayKey]id.AttendanceID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.AttendanceID]*models.Record),
		byDay:   make(map[dayKey]id.AttendanceID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey{account: record.AccountID, date: record.WorkDate}
	if _, taken := s.byDay[key]; taken {
		return sentinel.ErrConflict
	}
	stored := *record
	s.records[record.ID] = &stored
	s.byDay[key] = record.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, recordID id.AttendanceID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *r
	return &out, nil
}

// List returns records newest work date first.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]models.Record, error) {
	return s.list(limit, func(*models.Record) bool { return true }), nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID id.AccountID, limit int) ([]models.Record, error) {
	return s.list(limit, func(r *models.Record) bool { return r.AccountID == accountID }), nil
}

func (s *InMemoryStore) list(limit int, keep func(*models.Record) bool) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, 0, len(s.records))
	for _, r := range s.records {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkDate != out[j].WorkDate {
			return out[i].WorkDate > out[j].WorkDate
		}
		return out[i].CheckIn.After(out[j].CheckIn)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *InMemoryStore) Update(_ context.Context, recordID id.AttendanceID, patch models.Patch, now time.Time) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	patch.Apply(r, now)
	out := *r
	return &out, nil
}

// CountForDate counts records that are not absent, and the late ones among them.
func (s *InMemoryStore) CountForDate(_ context.Context, workDate string) (present, late int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.WorkDate != workDate || r.Status == models.StatusAbsent {
			continue
		}
		present++
		if r.Status == models.StatusLate {
			late++
		}
	}
	return present, late, nil
}
