// Package stages persists the stage graph per process.
package stages

import (
	"context"
	"sync"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// InMemory is a mutex-guarded stage store for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	stages map[id.ProcessID][]models.Stage
}

func NewInMemory() *InMemory {
	return &InMemory{stages: make(map[id.ProcessID][]models.Stage)}
}

// SetStages replaces the stage graph for a process.
func (s *InMemory) SetStages(_ context.Context, processID id.ProcessID, stageList []models.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]models.Stage, len(stageList))
	copy(cp, stageList)
	s.stages[processID] = cp
	return nil
}

func (s *InMemory) GetStages(_ context.Context, processID id.ProcessID) ([]models.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stageList := s.stages[processID]
	cp := make([]models.Stage, len(stageList))
	copy(cp, stageList)
	return cp, nil
}
