package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "onboard/pkg/domain"
	audit "onboard/pkg/platform/audit"
	txcontext "onboard/pkg/platform/tx"
)

// Store implements audit.Store on PostgreSQL. The audit_events table is
// append-only: this store exposes no update or delete paths, and the schema
// grants revoke them from the application role.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an audit event. When the context carries a transaction the
// write joins it, so a status commit and its audit entry land atomically.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	query := `
		INSERT INTO audit_events (
			id, category, occurred_at, onboarding_id, action, source,
			decision, reason, request_id, actor, client_ip, device_summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		string(category),
		timestamp,
		uuid.UUID(event.OnboardingID),
		event.Action,
		event.Source,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.Actor,
		event.ClientIP,
		event.DeviceSummary,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByOnboarding returns all audit events for one onboarding, oldest first.
func (s *Store) ListByOnboarding(ctx context.Context, onboardingID id.OnboardingID) ([]audit.Event, error) {
	query := `
		SELECT category, occurred_at, action, source, decision, reason,
		       request_id, actor, client_ip, device_summary
		FROM audit_events
		WHERE onboarding_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(onboardingID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		event := audit.Event{OnboardingID: onboardingID}
		var category string
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.Action,
			&event.Source,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.Actor,
			&event.ClientIP,
			&event.DeviceSummary,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
