package models

import (
	dErrors "onboard/pkg/domain-errors"
)

// OnboardingStatus is the lifecycle status of an onboarding record.
// Denied and Expired are terminal: ordinary rule evaluation can never move an
// onboarding out of them, only an authorized override can.
type OnboardingStatus string

const (
	StatusNotStarted           OnboardingStatus = "not_started"
	StatusInProcess            OnboardingStatus = "in_process"
	StatusPendingInitialReview OnboardingStatus = "pending_initial_review"
	StatusComplete             OnboardingStatus = "complete"
	StatusDenied               OnboardingStatus = "denied"
	StatusExpired              OnboardingStatus = "expired"
)

// Terminal reports whether the status is sticky against rule evaluation.
func (s OnboardingStatus) Terminal() bool {
	return s == StatusDenied || s == StatusExpired
}

// Valid reports whether s is a known onboarding status.
func (s OnboardingStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProcess, StatusPendingInitialReview,
		StatusComplete, StatusDenied, StatusExpired:
		return true
	}
	return false
}

// ParseOnboardingStatus validates a caller-supplied status string.
func ParseOnboardingStatus(raw string) (OnboardingStatus, error) {
	s := OnboardingStatus(raw)
	if !s.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown onboarding status %q", raw)
	}
	return s, nil
}

// RequirementStatus is the progress state of a single checklist item.
//
// The first four values form a total order used by rule thresholds:
// NotStarted < Incomplete < Complete < Approved. Denied sits outside the
// ordering; it satisfies only an explicit Denied threshold.
type RequirementStatus string

const (
	RequirementNotStarted RequirementStatus = "not_started"
	RequirementIncomplete RequirementStatus = "incomplete"
	RequirementComplete   RequirementStatus = "complete"
	RequirementApproved   RequirementStatus = "approved"
	RequirementDenied     RequirementStatus = "denied"
)

// Valid reports whether s is a known requirement status.
func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementNotStarted, RequirementIncomplete, RequirementComplete,
		RequirementApproved, RequirementDenied:
		return true
	}
	return false
}

// ParseRequirementStatus validates a caller-supplied status string.
func ParseRequirementStatus(raw string) (RequirementStatus, error) {
	s := RequirementStatus(raw)
	if !s.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown requirement status %q", raw)
	}
	return s, nil
}

func (s RequirementStatus) rank() (int, bool) {
	switch s {
	case RequirementNotStarted:
		return 0, true
	case RequirementIncomplete:
		return 1, true
	case RequirementComplete:
		return 2, true
	case RequirementApproved:
		return 3, true
	}
	return 0, false
}

// AtLeast reports whether s satisfies the given threshold. Denied is
// non-comparable: it matches only when the threshold itself is Denied, and
// nothing else matches a Denied threshold.
func (s RequirementStatus) AtLeast(threshold RequirementStatus) bool {
	if threshold == RequirementDenied || s == RequirementDenied {
		return s == threshold
	}
	sr, ok := s.rank()
	if !ok {
		return false
	}
	tr, ok := threshold.rank()
	if !ok {
		return false
	}
	return sr >= tr
}

// EvaluationLogic is the closed set of rule condition kinds, resolved once at
// configuration load rather than dispatched by name at evaluation time.
type EvaluationLogic string

const (
	LogicAll    EvaluationLogic = "ALL"
	LogicAny    EvaluationLogic = "ANY"
	LogicCustom EvaluationLogic = "CUSTOM"
)

// Valid reports whether l is a known evaluation logic.
func (l EvaluationLogic) Valid() bool {
	switch l {
	case LogicAll, LogicAny, LogicCustom:
		return true
	}
	return false
}

// StageState is the derived readiness state of a stage in the dependency graph.
type StageState string

const (
	StageReady    StageState = "ready"
	StageWaiting  StageState = "waiting"
	StageBlocked  StageState = "blocked"
	StageComplete StageState = "complete"
)
