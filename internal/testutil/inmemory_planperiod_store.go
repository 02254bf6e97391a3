package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// InMemoryPlanPeriodStore is an in-memory implementation of
// planperiod.Repository
type InMemoryPlanPeriodStore struct {
	mu      sync.RWMutex
	periods map[string]*planperiod.PlanPeriod
}

func NewInMemoryPlanPeriodStore() *InMemoryPlanPeriodStore {
	return &InMemoryPlanPeriodStore{
		periods: make(map[string]*planperiod.PlanPeriod),
	}
}

func (s *InMemoryPlanPeriodStore) Create(ctx context.Context, period *planperiod.PlanPeriod) error {
	if period == nil {
		return fmt.Errorf("period cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *period
	s.periods[period.ID] = &copied
	return nil
}

func (s *InMemoryPlanPeriodStore) Update(ctx context.Context, period *planperiod.PlanPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.periods[period.ID]; !ok {
		return ierr.NewError("plan period not found").
			WithHint("Plan period not found").
			Mark(ierr.ErrNotFound)
	}
	copied := *period
	s.periods[period.ID] = &copied
	return nil
}

func (s *InMemoryPlanPeriodStore) CloseOpen(ctx context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.periods {
		if p.UserID == userID && p.EndDate == nil && p.Status == types.StatusPublished {
			end := at
			p.EndDate = &end
		}
	}
	return nil
}

func (s *InMemoryPlanPeriodStore) GetOpen(ctx context.Context, userID string) (*planperiod.PlanPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open *planperiod.PlanPeriod
	for _, p := range s.periods {
		if p.UserID == userID && p.EndDate == nil && p.Status == types.StatusPublished {
			if open == nil || p.StartDate.After(open.StartDate) {
				open = p
			}
		}
	}
	if open == nil {
		return nil, ierr.NewError("plan period not found").
			WithHint("No plan period found for user").
			Mark(ierr.ErrNotFound)
	}
	copied := *open
	return &copied, nil
}

func (s *InMemoryPlanPeriodStore) GetLast(ctx context.Context, userID string) (*planperiod.PlanPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *planperiod.PlanPeriod
	for _, p := range s.periods {
		if p.UserID == userID && p.Status == types.StatusPublished {
			if last == nil || p.StartDate.After(last.StartDate) {
				last = p
			}
		}
	}
	if last == nil {
		return nil, ierr.NewError("plan period not found").
			WithHint("No plan period found for user").
			Mark(ierr.ErrNotFound)
	}
	copied := *last
	return &copied, nil
}

func (s *InMemoryPlanPeriodStore) ListByUser(ctx context.Context, userID string) ([]*planperiod.PlanPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var periods []*planperiod.PlanPeriod
	for _, p := range s.periods {
		if p.UserID == userID && p.Status == types.StatusPublished {
			copied := *p
			periods = append(periods, &copied)
		}
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].StartDate.After(periods[j].StartDate)
	})
	return periods, nil
}

// OpenCount returns the number of rows with a null end date for the user
func (s *InMemoryPlanPeriodStore) OpenCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.periods {
		if p.UserID == userID && p.EndDate == nil {
			count++
		}
	}
	return count
}

func (s *InMemoryPlanPeriodStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = make(map[string]*planperiod.PlanPeriod)
}
