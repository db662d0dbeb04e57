// Package staleness detects rule-configuration drift between the moment a
// client session loaded its rules and the moment it tries to act on them.
// Drift is advisory: it gates a submission workflow in the caller, it never
// blocks evaluation itself.
package staleness

import (
	"context"
	"log/slog"

	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// Marker is a captured configuration version: the maximum ConfigVersion
// across the rules engines applicable to one onboarding at capture time.
type Marker int64

// Tracker captures and compares configuration version markers.
type Tracker struct {
	onboardings ports.StatusSink
	rules       ports.RulesSource
	logger      *slog.Logger
}

type Option func(t *Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New constructs a Tracker.
func New(onboardings ports.StatusSink, rules ports.RulesSource, opts ...Option) *Tracker {
	t := &Tracker{onboardings: onboardings, rules: rules}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Capture returns the current version marker for the onboarding's rule scope.
// Callers capture at session start and compare later via HasDrifted.
func (t *Tracker) Capture(ctx context.Context, onboardingID id.OnboardingID) (Marker, error) {
	ob, err := t.onboardings.GetOnboarding(ctx, onboardingID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeNotFound, "onboarding not found")
	}
	version, err := t.rules.ConfigVersion(ctx, ob.ProgramGroupID, ob.RequirementGroupID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "rules configuration unavailable")
	}
	return Marker(version), nil
}

// HasDrifted reports whether the configuration version has moved past the
// captured marker.
func (t *Tracker) HasDrifted(ctx context.Context, onboardingID id.OnboardingID, captured Marker) (bool, error) {
	current, err := t.Capture(ctx, onboardingID)
	if err != nil {
		return false, err
	}
	return current != captured, nil
}
