package ledger

import (
	"context"
	"sort"
	"sync"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	accounts map[int64]Account
	lastID   int64
}

// NewInMemory creates a concurrency-safe in-memory store used in development and tests.
func NewInMemory() Store {
	return &inMemoryStore{accounts: make(map[int64]Account)}
}

func (s *inMemoryStore) Put(_ context.Context, account Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := account.clone()
	if stored.ID == 0 {
		s.lastID++
		stored.ID = s.lastID
	} else if stored.ID > s.lastID {
		// explicit ids must not collide with future assignments
		s.lastID = stored.ID
	}
	s.accounts[stored.ID] = stored
	return stored.clone(), nil
}

func (s *inMemoryStore) GetByID(_ context.Context, id int64) (Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return Account{}, false, nil
	}
	return account.clone(), true, nil
}

func (s *inMemoryStore) ListAll(_ context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *inMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *inMemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[id]
	return ok, nil
}

func (s *inMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}
