// Package onboarding persists onboarding records and implements the
// revision-guarded status commit the coordinator depends on.
package onboarding

import (
	"context"
	"sync"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

// InMemory is a mutex-guarded onboarding store for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.OnboardingID]*models.Onboarding
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.OnboardingID]*models.Onboarding)}
}

// Put seeds or replaces a record. Intended for setup paths, not for status
// commits, which must go through CommitStatus.
func (s *InMemory) Put(_ context.Context, ob *models.Onboarding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ob
	s.records[ob.ID] = &cp
	return nil
}

func (s *InMemory) GetOnboarding(_ context.Context, onboardingID id.OnboardingID) (*models.Onboarding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ob, ok := s.records[onboardingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *ob
	return &cp, nil
}

// CommitStatus applies the compare-and-swap: the write happens only when the
// stored revision still matches expectedRevision.
func (s *InMemory) CommitStatus(ctx context.Context, onboardingID id.OnboardingID, expectedRevision int64, newStatus models.OnboardingStatus) (*models.Onboarding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob, ok := s.records[onboardingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if ob.Revision != expectedRevision {
		return nil, sentinel.ErrConflict
	}
	ob.Status = newStatus
	ob.Revision++
	ob.UpdatedAt = requestcontext.Now(ctx)
	cp := *ob
	return &cp, nil
}

// List returns every stored onboarding, for batch re-evaluation in tests.
func (s *InMemory) List(_ context.Context) ([]models.Onboarding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Onboarding, 0, len(s.records))
	for _, ob := range s.records {
		out = append(out, *ob)
	}
	return out, nil
}
