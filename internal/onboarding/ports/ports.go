//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

// Package ports defines the collaborator interfaces the status determination
// core depends on. The core never talks to a database, cache, or broker
// directly; every external read and write goes through one of these ports.
package ports

import (
	"context"
	"log/slog"
	"time"

	"onboard/internal/onboarding/models"
	"onboard/pkg/attrs"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/audit"
	request "onboard/pkg/platform/middleware/request"
)

// RequirementSource provides the current requirement snapshot for an
// onboarding. Requirements are written by form-save collaborators outside
// this core.
type RequirementSource interface {
	GetRequirements(ctx context.Context, onboardingID id.OnboardingID) ([]models.Requirement, error)
}

// RulesSource provides the rule configuration scoped to a group pairing.
type RulesSource interface {
	// GetApplicableEngines returns every engine whose scope matches the
	// given program/requirement group pairing.
	GetApplicableEngines(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) ([]models.RulesEngine, error)

	// ConfigVersion returns the maximum config version across the engines
	// in scope. It is the unit of staleness detection.
	ConfigVersion(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) (int64, error)
}

// StageSource provides the stage graph for a process.
type StageSource interface {
	GetStages(ctx context.Context, processID id.ProcessID) ([]models.Stage, error)
}

// StatusSink reads and conditionally writes onboarding records.
type StatusSink interface {
	// GetOnboarding returns the current record, including its revision.
	GetOnboarding(ctx context.Context, onboardingID id.OnboardingID) (*models.Onboarding, error)

	// CommitStatus writes newStatus only if the stored revision still equals
	// expectedRevision, bumping the revision on success. A stale revision
	// returns sentinel.ErrConflict and leaves the record untouched.
	CommitStatus(ctx context.Context, onboardingID id.OnboardingID, expectedRevision int64, newStatus models.OnboardingStatus) (*models.Onboarding, error)
}

// AuditSink appends and queries immutable override records.
type AuditSink interface {
	AppendOverride(ctx context.Context, record *models.OverrideRecord) error
	ListOverrides(ctx context.Context, onboardingID id.OnboardingID, from, to time.Time) ([]models.OverrideRecord, error)
}

// Authorizer decides whether a caller system may override statuses within a
// program scope.
type Authorizer interface {
	IsAllowed(ctx context.Context, source, secret string, programScope []string) (bool, error)
}

// AuditPublisher emits audit events for security-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit is a shared helper for logging audit events across onboarding
// services. It logs to both the structured logger and the audit publisher if
// available.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, kv ...any) {
	if requestID := request.GetRequestID(ctx); requestID != "" && event.RequestID == "" {
		event.RequestID = requestID
	}
	if event.Reason == "" {
		event.Reason = attrs.ExtractString(kv, "reason")
	}
	if event.Decision == "" {
		event.Decision = attrs.ExtractString(kv, "decision")
	}

	args := append(kv, "event", event.Action, "log_type", "audit")
	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
