// Package rules provides the rules-configuration source: which engines apply
// to a group pairing and how fresh their configuration is.
package rules

import (
	"context"
	"sync"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// InMemory is a mutex-guarded rules source for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	engines []models.RulesEngine
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// SetEngine inserts or replaces an engine and bumps its config version,
// mirroring what an admin edit does in the real configuration system.
func (s *InMemory) SetEngine(_ context.Context, eng models.RulesEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.engines {
		if existing.ID == eng.ID {
			if eng.ConfigVersion <= existing.ConfigVersion {
				eng.ConfigVersion = existing.ConfigVersion + 1
			}
			s.engines[i] = eng
			return nil
		}
	}
	s.engines = append(s.engines, eng)
	return nil
}

func (s *InMemory) GetApplicableEngines(_ context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) ([]models.RulesEngine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RulesEngine
	for _, eng := range s.engines {
		if eng.ProgramGroupID == programGroupID && eng.RequirementGroupID == requirementGroupID {
			out = append(out, eng)
		}
	}
	return out, nil
}

func (s *InMemory) ConfigVersion(_ context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for _, eng := range s.engines {
		if eng.ProgramGroupID == programGroupID && eng.RequirementGroupID == requirementGroupID && eng.ConfigVersion > max {
			max = eng.ConfigVersion
		}
	}
	return max, nil
}
