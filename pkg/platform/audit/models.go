package audit

import (
	"context"
	"time"

	id "onboard/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: status overrides, override denials.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring and forensics.
	// Examples: unauthorized override attempts, rejected source systems.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// These can be sampled or aggregated with shorter retention.
	// Examples: routine evaluations, drift detections, batch rechecks.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category     EventCategory
	Timestamp    time.Time
	OnboardingID id.OnboardingID
	Action       string
	// Source is the calling system on whose behalf the action ran.
	Source string
	// Decision records the outcome of the action (e.g. the resulting status).
	Decision string
	Reason   string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// Actor tracks who performed the action. For overrides this is the
	// requestedBy identity from the authenticated token.
	Actor string
	// ClientIP and DeviceSummary capture caller forensics for overrides.
	ClientIP      string
	DeviceSummary string
}

type AuditEvent string

const (
	// Evaluation events
	EventStatusEvaluated   AuditEvent = "status_evaluated"
	EventStatusCommitted   AuditEvent = "status_committed"
	EventEvaluationRetried AuditEvent = "evaluation_retried"
	EventBatchReevaluated  AuditEvent = "batch_reevaluated"

	// Override events
	EventOverrideApplied AuditEvent = "override_applied"
	EventOverrideDenied  AuditEvent = "override_denied"

	// Configuration events
	EventConfigDriftDetected AuditEvent = "config_drift_detected"
	EventConfigRefreshed     AuditEvent = "config_refreshed"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Security: security monitoring, SIEM integration, alerting.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - manual interventions on computed state
	EventOverrideApplied: CategoryCompliance,

	// Security events - rejected callers, denied overrides
	EventOverrideDenied: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventStatusEvaluated:     CategoryOperations,
	EventStatusCommitted:     CategoryOperations,
	EventEvaluationRetried:   CategoryOperations,
	EventBatchReevaluated:    CategoryOperations,
	EventConfigDriftDetected: CategoryOperations,
	EventConfigRefreshed:     CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must treat the log as
// append-only: no update or delete operations exist on this interface.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOnboarding(ctx context.Context, onboardingID id.OnboardingID) ([]Event, error)
}

// Publisher emits audit events to a downstream sink (broker, log, store).
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
