package testutil

import (
	"context"
	"sync"

	"github.com/kivee/kivee/internal/domain/tier"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
)

// InMemoryTierStore is an in-memory implementation of tier.Repository
type InMemoryTierStore struct {
	mu    sync.Mutex
	tiers map[string]*tier.Tier
}

// NewInMemoryTierStore creates a new instance of InMemoryTierStore
func NewInMemoryTierStore() *InMemoryTierStore {
	return &InMemoryTierStore{
		tiers: make(map[string]*tier.Tier),
	}
}

func (s *InMemoryTierStore) Create(ctx context.Context, t *tier.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tiers[t.ID]; exists {
		return ierr.NewError("tier already exists").
			WithHint("A tier with this ID already exists").
			WithReportableDetails(map[string]interface{}{
				"tier_id": t.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.tiers[t.ID] = t
	return nil
}

func (s *InMemoryTierStore) Get(ctx context.Context, id string) (*tier.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tiers[id]
	if !exists || t.Status == types.StatusDeleted {
		return nil, ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]interface{}{
				"tier_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return t, nil
}

func (s *InMemoryTierStore) List(ctx context.Context) ([]*tier.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiers := make([]*tier.Tier, 0, len(s.tiers))
	for _, t := range s.tiers {
		if t.Status != types.StatusDeleted {
			tiers = append(tiers, t)
		}
	}
	return tiers, nil
}

func (s *InMemoryTierStore) Update(ctx context.Context, t *tier.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tiers[t.ID]; !exists {
		return ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]interface{}{
				"tier_id": t.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	s.tiers[t.ID] = t
	return nil
}

func (s *InMemoryTierStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tiers[id]
	if !exists {
		return ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]interface{}{
				"tier_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	t.Status = types.StatusDeleted
	return nil
}

// Clear clears all tiers from the in-memory store
func (s *InMemoryTierStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers = make(map[string]*tier.Tier)
}
