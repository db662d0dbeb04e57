// Package audit persists the append-only override record log. No update or
// delete operations exist on either implementation.
package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// InMemory is a mutex-guarded override log for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.OnboardingID][]models.OverrideRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.OnboardingID][]models.OverrideRecord)}
}

func (s *InMemory) AppendOverride(_ context.Context, record *models.OverrideRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.OnboardingID] = append(s.records[record.OnboardingID], *record)
	return nil
}

// ListOverrides returns records for an onboarding within [from, to]. Zero
// bounds are open-ended.
func (s *InMemory) ListOverrides(_ context.Context, onboardingID id.OnboardingID, from, to time.Time) ([]models.OverrideRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.OverrideRecord
	for _, rec := range s.records[onboardingID] {
		if !from.IsZero() && rec.ProcessedDate.Before(from) {
			continue
		}
		if !to.IsZero() && rec.ProcessedDate.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProcessedDate.Before(out[j].ProcessedDate) })
	return out, nil
}
