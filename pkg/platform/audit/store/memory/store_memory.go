package memory

import (
	"context"
	"sync"

	id "onboard/pkg/domain"
	audit "onboard/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.OnboardingID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.OnboardingID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.OnboardingID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.OnboardingID] = append(s.events[event.OnboardingID], event)
	return nil
}

func (s *InMemoryStore) ListByOnboarding(_ context.Context, onboardingID id.OnboardingID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[onboardingID]...), nil
}

// ListAll returns all audit events across all onboardings (admin-only operation)
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allEvents []audit.Event
	for _, onboardingEvents := range s.events {
		allEvents = append(allEvents, onboardingEvents...)
	}

	return allEvents, nil
}
