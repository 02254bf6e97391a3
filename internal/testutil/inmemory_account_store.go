package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tubachi/tokenledger/internal/domain/account"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// InMemoryAccountStore is an in-memory implementation of account.Repository
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*account.Account),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a == nil {
		return fmt.Errorf("account cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == a.Email {
			return ierr.NewError("account already exists").
				WithHint("An account with this email already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	copied := *a
	s.accounts[a.ID] = &copied
	return nil
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *InMemoryAccountStore) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email && a.Status == types.StatusPublished {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ierr.NewError("account not found").
		WithHint("Account not found").
		Mark(ierr.ErrNotFound)
}

// GetForUpdate behaves like Get; in-memory tests run operations one at a
// time, so there is no row lock to take.
func (s *InMemoryAccountStore) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	return s.Get(ctx, id)
}

func (s *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(a.ID); err != nil {
		return err
	}
	copied := *a
	s.accounts[a.ID] = &copied
	return nil
}

func (s *InMemoryAccountStore) ListDueForReset(ctx context.Context, cutoff time.Time) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*account.Account
	for _, a := range s.accounts {
		if a.Status == types.StatusPublished && !a.LastTokenReset.After(cutoff) {
			copied := *a
			due = append(due, &copied)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].LastTokenReset.Before(due[j].LastTokenReset)
	})
	return due, nil
}

func (s *InMemoryAccountStore) get(id string) (*account.Account, error) {
	a, ok := s.accounts[id]
	if !ok || a.Status != types.StatusPublished {
		return nil, ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (s *InMemoryAccountStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*account.Account)
}
