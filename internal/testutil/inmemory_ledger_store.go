package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/types"
)

// InMemoryLedgerStore is an in-memory implementation of ledger.Repository
type InMemoryLedgerStore struct {
	mu   sync.RWMutex
	txns map[string]*ledger.TokenTransaction
}

func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		txns: make(map[string]*ledger.TokenTransaction),
	}
}

func (s *InMemoryLedgerStore) Create(ctx context.Context, txn *ledger.TokenTransaction) error {
	if txn == nil {
		return fmt.Errorf("transaction cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txns[txn.ID]; exists {
		return fmt.Errorf("transaction already exists")
	}
	copied := *txn
	s.txns[txn.ID] = &copied
	return nil
}

func (s *InMemoryLedgerStore) BalanceForUser(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for _, txn := range s.txns {
		if txn.UserID == userID && txn.Status == types.StatusPublished {
			sum += txn.Amount
		}
	}
	return sum, nil
}

func (s *InMemoryLedgerStore) ListByUser(ctx context.Context, userID string, filter *types.Filter) ([]*ledger.TokenTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txns []*ledger.TokenTransaction
	for _, txn := range s.txns {
		if txn.UserID == userID && txn.Status == types.StatusPublished {
			txns = append(txns, txn)
		}
	}

	sort.Slice(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	offset := filter.GetOffset()
	if offset >= len(txns) {
		return nil, nil
	}
	txns = txns[offset:]

	limit := filter.GetLimit()
	if limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

// CountForUser returns the number of ledger entries for the user
func (s *InMemoryLedgerStore) CountForUser(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, txn := range s.txns {
		if txn.UserID == userID {
			count++
		}
	}
	return count
}

func (s *InMemoryLedgerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = make(map[string]*ledger.TokenTransaction)
}
