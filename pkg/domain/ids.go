// Package domain defines typed identifiers shared across modules.
//
// Every identifier is a distinct uuid-backed type so the compiler rejects
// cross-type assignment (an OnboardingID can never be passed where a
// StageID is expected). Parse functions enforce the trust-boundary
// invariant: IDs must be valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "onboard/pkg/domain-errors"
)

type (
	// OnboardingID identifies one onboarding record.
	OnboardingID uuid.UUID
	// RequirementID identifies a checklist requirement on an onboarding.
	RequirementID uuid.UUID
	// StageID identifies a stage within a process.
	StageID uuid.UUID
	// ProcessID identifies an ordered collection of stages.
	ProcessID uuid.UUID
	// EngineID identifies a rules engine configuration.
	EngineID uuid.UUID
	// RuleID identifies a single status rule within an engine.
	RuleID uuid.UUID
	// OverrideID identifies an override audit record.
	OverrideID uuid.UUID
	// ProgramGroupID identifies a vendor program group.
	ProgramGroupID uuid.UUID
	// RequirementGroupID identifies a requirement group.
	RequirementGroupID uuid.UUID
)

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid uuid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil uuid")
	}
	return parsed, nil
}

// ParseOnboardingID parses and validates an onboarding ID string.
func ParseOnboardingID(raw string) (OnboardingID, error) {
	parsed, err := parseUUID(raw)
	return OnboardingID(parsed), err
}

// ParseRequirementID parses and validates a requirement ID string.
func ParseRequirementID(raw string) (RequirementID, error) {
	parsed, err := parseUUID(raw)
	return RequirementID(parsed), err
}

// ParseStageID parses and validates a stage ID string.
func ParseStageID(raw string) (StageID, error) {
	parsed, err := parseUUID(raw)
	return StageID(parsed), err
}

// ParseProcessID parses and validates a process ID string.
func ParseProcessID(raw string) (ProcessID, error) {
	parsed, err := parseUUID(raw)
	return ProcessID(parsed), err
}

// ParseEngineID parses and validates a rules engine ID string.
func ParseEngineID(raw string) (EngineID, error) {
	parsed, err := parseUUID(raw)
	return EngineID(parsed), err
}

// ParseRuleID parses and validates a status rule ID string.
func ParseRuleID(raw string) (RuleID, error) {
	parsed, err := parseUUID(raw)
	return RuleID(parsed), err
}

// ParseOverrideID parses and validates an override record ID string.
func ParseOverrideID(raw string) (OverrideID, error) {
	parsed, err := parseUUID(raw)
	return OverrideID(parsed), err
}

// ParseProgramGroupID parses and validates a program group ID string.
func ParseProgramGroupID(raw string) (ProgramGroupID, error) {
	parsed, err := parseUUID(raw)
	return ProgramGroupID(parsed), err
}

// ParseRequirementGroupID parses and validates a requirement group ID string.
func ParseRequirementGroupID(raw string) (RequirementGroupID, error) {
	parsed, err := parseUUID(raw)
	return RequirementGroupID(parsed), err
}

// NewOnboardingID generates a fresh onboarding ID.
func NewOnboardingID() OnboardingID { return OnboardingID(uuid.New()) }

// NewRequirementID generates a fresh requirement ID.
func NewRequirementID() RequirementID { return RequirementID(uuid.New()) }

// NewStageID generates a fresh stage ID.
func NewStageID() StageID { return StageID(uuid.New()) }

// NewProcessID generates a fresh process ID.
func NewProcessID() ProcessID { return ProcessID(uuid.New()) }

// NewEngineID generates a fresh engine ID.
func NewEngineID() EngineID { return EngineID(uuid.New()) }

// NewRuleID generates a fresh rule ID.
func NewRuleID() RuleID { return RuleID(uuid.New()) }

// NewOverrideID generates a fresh override record ID.
func NewOverrideID() OverrideID { return OverrideID(uuid.New()) }

// NewProgramGroupID generates a fresh program group ID.
func NewProgramGroupID() ProgramGroupID { return ProgramGroupID(uuid.New()) }

// NewRequirementGroupID generates a fresh requirement group ID.
func NewRequirementGroupID() RequirementGroupID { return RequirementGroupID(uuid.New()) }

func (id OnboardingID) String() string       { return uuid.UUID(id).String() }
func (id RequirementID) String() string      { return uuid.UUID(id).String() }
func (id StageID) String() string            { return uuid.UUID(id).String() }
func (id ProcessID) String() string          { return uuid.UUID(id).String() }
func (id EngineID) String() string           { return uuid.UUID(id).String() }
func (id RuleID) String() string             { return uuid.UUID(id).String() }
func (id OverrideID) String() string         { return uuid.UUID(id).String() }
func (id ProgramGroupID) String() string     { return uuid.UUID(id).String() }
func (id RequirementGroupID) String() string { return uuid.UUID(id).String() }

func (id OnboardingID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RequirementID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id StageID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id ProcessID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id EngineID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id ProgramGroupID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RequirementGroupID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
