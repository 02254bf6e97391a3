package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tubachi/tokenledger/internal/domain/plan"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// InMemoryPlanStore is an in-memory implementation of plan.Repository
type InMemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*plan.Plan
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		plans: make(map[string]*plan.Plan),
	}
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("plan cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.plans {
		if existing.ExternalPlanID == p.ExternalPlanID {
			return ierr.NewError("plan already exists").
				WithHint("A plan with this external id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	copied := *p
	s.plans[p.ID] = &copied
	return nil
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok || p.Status != types.StatusPublished {
		return nil, ierr.NewError("plan not found").
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *InMemoryPlanStore) GetByExternalID(ctx context.Context, externalID int) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.ExternalPlanID == externalID && p.Status == types.StatusPublished {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ierr.NewError("plan not found").
		WithHint("Plan not found").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPlanStore) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var plans []*plan.Plan
	for _, p := range s.plans {
		if p.IsActive && p.Status == types.StatusPublished {
			copied := *p
			plans = append(plans, &copied)
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].PriceUSD.LessThan(plans[j].PriceUSD)
	})
	return plans, nil
}

func (s *InMemoryPlanStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = make(map[string]*plan.Plan)
}
