// Package models holds the domain model for onboarding status determination:
// the onboarding record itself, its requirements and stages, the rule
// configuration that decides status, and the audit record for manual
// overrides.
package models

import (
	"time"

	id "onboard/pkg/domain"
)

// Onboarding is the record whose lifecycle status the core computes.
//
// Invariants:
//   - Revision strictly increases on every committed status change
//   - Status leaves Denied/Expired only via an explicit override
//   - Mutated only through the coordinator's revision-guarded commit or an
//     override; everything else treats it as read-only
type Onboarding struct {
	ID                 id.OnboardingID       `json:"id"`
	ProgramGroupID     id.ProgramGroupID     `json:"program_group_id"`
	RequirementGroupID id.RequirementGroupID `json:"requirement_group_id"`
	ProcessID          id.ProcessID          `json:"process_id"`
	Status             OnboardingStatus      `json:"status"`
	Revision           int64                 `json:"revision"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// Requirement is one checklist item contributing to status evaluation.
// Requirements are mutated by external form-save collaborators; the core
// only reads them.
type Requirement struct {
	ID           id.RequirementID      `json:"id"`
	OnboardingID id.OnboardingID       `json:"onboarding_id"`
	StageID      id.StageID            `json:"stage_id"`
	GroupID      id.RequirementGroupID `json:"group_id"`
	Name         string                `json:"name"`
	Status       RequirementStatus     `json:"status"`
}

// Stage is one step in a process, gated by predecessor stages. The
// predecessor references must form a DAG; a cycle is a configuration error.
type Stage struct {
	ID               id.StageID   `json:"id"`
	ProcessID        id.ProcessID `json:"process_id"`
	Name             string       `json:"name"`
	Sequence         int          `json:"sequence"`
	RequiredStageIDs []id.StageID `json:"required_stage_ids"`
	Blocked          bool         `json:"blocked"`
	BlockReason      string       `json:"block_reason,omitempty"`
	Completed        bool         `json:"completed"`
}

// RequirementCheck names one requirement a rule inspects and the minimum
// status that satisfies the rule.
type RequirementCheck struct {
	Name           string            `json:"name"`
	RequiredStatus RequirementStatus `json:"required_status"`
}

// StatusRule is one conditional rule inside an engine. Rules evaluate in
// ascending Sequence order; the first passing rule in an engine wins for that
// engine and evaluation short-circuits.
type StatusRule struct {
	ID               id.RuleID          `json:"id"`
	Sequence         int                `json:"sequence"`
	Logic            EvaluationLogic    `json:"logic"`
	CustomExpression string             `json:"custom_expression,omitempty"`
	Checks           []RequirementCheck `json:"checks"`
	ResultingStatus  OnboardingStatus   `json:"resulting_status"`
}

// RulesEngine is a versioned, ordered set of StatusRules scoped to one
// (program group, requirement group) pairing. ConfigVersion is the unit of
// staleness detection: it advances whenever the engine's rules change.
type RulesEngine struct {
	ID                 id.EngineID           `json:"id"`
	Name               string                `json:"name"`
	ProgramGroupID     id.ProgramGroupID     `json:"program_group_id"`
	RequirementGroupID id.RequirementGroupID `json:"requirement_group_id"`
	Priority           int                   `json:"priority"`
	ConfigVersion      int64                 `json:"config_version"`
	Rules              []StatusRule          `json:"rules"`
}

// TraceEntry is one line of the diagnostic record for a single evaluation
// run. Traces are ephemeral: returned to callers for preview and audit,
// never stored on the onboarding.
type TraceEntry struct {
	RuleOrder          int               `json:"rule_order"`
	GroupName          string            `json:"group_name"`
	EngineName         string            `json:"engine_name"`
	RuleNumber         int               `json:"rule_number"`
	RequirementName    string            `json:"requirement_name,omitempty"`
	ExpectedStatus     RequirementStatus `json:"expected_status,omitempty"`
	Passed             bool              `json:"passed"`
	Logic              EvaluationLogic   `json:"logic"`
	ResultingStatus    OnboardingStatus  `json:"resulting_status,omitempty"`
	ShortCircuitReason string            `json:"short_circuit_reason,omitempty"`
	Reason             string            `json:"reason,omitempty"`
}

// OverrideRecord is the immutable audit record of one manual status change.
//
// Invariants:
//   - Append-only: never edited or deleted after creation
//   - Exactly one record per successful override, 1:1 with the status change
type OverrideRecord struct {
	ID               id.OverrideID    `json:"id"`
	OnboardingID     id.OnboardingID  `json:"onboarding_id"`
	PreviousStatus   OnboardingStatus `json:"previous_status"`
	NewStatus        OnboardingStatus `json:"new_status"`
	Justification    string           `json:"justification"`
	Source           string           `json:"source"`
	RequestID        string           `json:"request_id"`
	AllowedPrograms  []string         `json:"allowed_programs"`
	RequestedBy      string           `json:"requested_by"`
	ProcessedBy      string           `json:"processed_by"`
	ProcessedDate    time.Time        `json:"processed_date"`
	ClientIP         string           `json:"client_ip,omitempty"`
	UserAgentSummary string           `json:"user_agent_summary,omitempty"`
}
