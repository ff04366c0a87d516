package testutil

import (
	"context"
	"sync"

	"github.com/kivee/kivee/internal/domain/trial"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
)

// InMemoryTrialStore is an in-memory implementation of trial.Repository
type InMemoryTrialStore struct {
	mu     sync.Mutex
	trials map[string]*trial.Trial
}

// NewInMemoryTrialStore creates a new instance of InMemoryTrialStore
func NewInMemoryTrialStore() *InMemoryTrialStore {
	return &InMemoryTrialStore{
		trials: make(map[string]*trial.Trial),
	}
}

func (s *InMemoryTrialStore) Create(ctx context.Context, t *trial.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trials[t.ID]; exists {
		return ierr.NewError("trial already exists").
			WithHint("A trial with this ID already exists").
			WithReportableDetails(map[string]interface{}{
				"trial_id": t.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.trials[t.ID] = t
	return nil
}

func (s *InMemoryTrialStore) Get(ctx context.Context, id string) (*trial.Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.trials[id]
	if !exists || t.Status == types.StatusDeleted {
		return nil, ierr.NewError("trial not found").
			WithHint("Trial not found").
			WithReportableDetails(map[string]interface{}{
				"trial_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return t, nil
}

func (s *InMemoryTrialStore) List(ctx context.Context) ([]*trial.Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trials := make([]*trial.Trial, 0, len(s.trials))
	for _, t := range s.trials {
		if t.Status != types.StatusDeleted {
			trials = append(trials, t)
		}
	}
	return trials, nil
}

func (s *InMemoryTrialStore) Update(ctx context.Context, t *trial.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trials[t.ID]; !exists {
		return ierr.NewError("trial not found").
			WithHint("Trial not found").
			WithReportableDetails(map[string]interface{}{
				"trial_id": t.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	s.trials[t.ID] = t
	return nil
}

func (s *InMemoryTrialStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.trials[id]
	if !exists {
		return ierr.NewError("trial not found").
			WithHint("Trial not found").
			WithReportableDetails(map[string]interface{}{
				"trial_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	t.Status = types.StatusDeleted
	return nil
}

// Clear clears all trials from the in-memory store
func (s *InMemoryTrialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trials = make(map[string]*trial.Trial)
}
