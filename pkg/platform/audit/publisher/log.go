package publisher

import (
	"context"
	"log/slog"
	"time"

	audit "onboard/pkg/platform/audit"
)

// Log is an audit publisher that writes events to the structured log.
// Used in development and as the sink of last resort when Kafka is not
// configured.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log-backed audit publisher.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Emit writes the event as one structured log line.
func (p *Log) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.logger.InfoContext(ctx, "audit event",
		"log_type", "audit",
		"category", string(audit.AuditEvent(event.Action).Category()),
		"action", event.Action,
		"onboarding_id", event.OnboardingID,
		"source", event.Source,
		"decision", event.Decision,
		"reason", event.Reason,
		"request_id", event.RequestID,
		"actor", event.Actor,
	)
	return nil
}
