// Package requirements provides the read-side requirement snapshot the
// evaluation engine consumes. Requirement writes happen in the form-save
// flow, outside this service.
package requirements

import (
	"context"
	"sync"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// InMemory is a mutex-guarded requirement source for tests and local runs.
type InMemory struct {
	mu           sync.RWMutex
	byOnboarding map[id.OnboardingID][]models.Requirement
}

func NewInMemory() *InMemory {
	return &InMemory{byOnboarding: make(map[id.OnboardingID][]models.Requirement)}
}

// SetRequirements seeds the snapshot for one onboarding.
func (s *InMemory) SetRequirements(_ context.Context, onboardingID id.OnboardingID, reqs []models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]models.Requirement, len(reqs))
	copy(cp, reqs)
	s.byOnboarding[onboardingID] = cp
	return nil
}

func (s *InMemory) GetRequirements(_ context.Context, onboardingID id.OnboardingID) ([]models.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reqs := s.byOnboarding[onboardingID]
	out := make([]models.Requirement, len(reqs))
	copy(out, reqs)
	return out, nil
}
