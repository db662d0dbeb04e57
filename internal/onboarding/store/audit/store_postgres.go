package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// PostgresStore persists override records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed override log.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AppendOverride(ctx context.Context, record *models.OverrideRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO override_records (
			id, onboarding_id, previous_status, new_status, justification,
			source, request_id, allowed_programs, requested_by, processed_by,
			processed_date, client_ip, user_agent_summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		record.ID.String(),
		record.OnboardingID.String(),
		string(record.PreviousStatus),
		string(record.NewStatus),
		record.Justification,
		record.Source,
		record.RequestID,
		pq.Array(record.AllowedPrograms),
		record.RequestedBy,
		record.ProcessedBy,
		record.ProcessedDate,
		record.ClientIP,
		record.UserAgentSummary,
	)
	if err != nil {
		return fmt.Errorf("append override record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListOverrides(ctx context.Context, onboardingID id.OnboardingID, from, to time.Time) ([]models.OverrideRecord, error) {
	query := `
		SELECT id, previous_status, new_status, justification, source,
		       request_id, allowed_programs, requested_by, processed_by,
		       processed_date, client_ip, user_agent_summary
		FROM override_records
		WHERE onboarding_id = $1
		  AND ($2::timestamptz IS NULL OR processed_date >= $2)
		  AND ($3::timestamptz IS NULL OR processed_date <= $3)
		ORDER BY processed_date
	`
	rows, err := s.db.QueryContext(ctx, query, onboardingID.String(), nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("list override records: %w", err)
	}
	defer rows.Close()

	var out []models.OverrideRecord
	for rows.Next() {
		var (
			rec   models.OverrideRecord
			rawID string
		)
		if err := rows.Scan(
			&rawID,
			&rec.PreviousStatus,
			&rec.NewStatus,
			&rec.Justification,
			&rec.Source,
			&rec.RequestID,
			pq.Array(&rec.AllowedPrograms),
			&rec.RequestedBy,
			&rec.ProcessedBy,
			&rec.ProcessedDate,
			&rec.ClientIP,
			&rec.UserAgentSummary,
		); err != nil {
			return nil, fmt.Errorf("list override records: %w", err)
		}
		if rec.ID, err = id.ParseOverrideID(rawID); err != nil {
			return nil, fmt.Errorf("list override records: %w", err)
		}
		rec.OnboardingID = onboardingID
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
