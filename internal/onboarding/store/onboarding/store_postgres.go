package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

// PostgresStore persists onboarding records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed onboarding store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOnboarding(ctx context.Context, onboardingID id.OnboardingID) (*models.Onboarding, error) {
	var ob models.Onboarding
	var rawID, program, group, process string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, program_group_id, requirement_group_id, process_id, status, revision, updated_at
		FROM onboardings
		WHERE id = $1
	`, onboardingID.String()).Scan(&rawID, &program, &group, &process, &ob.Status, &ob.Revision, &ob.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	if ob.ID, err = id.ParseOnboardingID(rawID); err != nil {
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	if ob.ProgramGroupID, err = id.ParseProgramGroupID(program); err != nil {
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	if ob.RequirementGroupID, err = id.ParseRequirementGroupID(group); err != nil {
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	if ob.ProcessID, err = id.ParseProcessID(process); err != nil {
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	return &ob, nil
}

// CommitStatus performs the revision compare-and-swap in a single UPDATE so
// concurrent committers race on the database row, not on application state.
func (s *PostgresStore) CommitStatus(ctx context.Context, onboardingID id.OnboardingID, expectedRevision int64, newStatus models.OnboardingStatus) (*models.Onboarding, error) {
	now := requestcontext.Now(ctx)
	res, err := s.db.ExecContext(ctx, `
		UPDATE onboardings
		SET status = $1, revision = revision + 1, updated_at = $2
		WHERE id = $3 AND revision = $4
	`, string(newStatus), now, onboardingID.String(), expectedRevision)
	if err != nil {
		return nil, fmt.Errorf("commit status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("commit status: %w", err)
	}
	if affected == 0 {
		// Either the record is gone or the revision moved. Disambiguate so
		// callers can retry on conflict but fail fast on missing records.
		if _, getErr := s.GetOnboarding(ctx, onboardingID); getErr != nil {
			return nil, getErr
		}
		return nil, sentinel.ErrConflict
	}
	return s.GetOnboarding(ctx, onboardingID)
}

// ListIDs returns every onboarding ID, for batch re-evaluation jobs.
func (s *PostgresStore) ListIDs(ctx context.Context) ([]id.OnboardingID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM onboardings ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("list onboardings: %w", err)
	}
	defer rows.Close()

	var ids []id.OnboardingID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list onboardings: %w", err)
		}
		parsed, err := id.ParseOnboardingID(raw)
		if err != nil {
			return nil, fmt.Errorf("list onboardings: %w", err)
		}
		ids = append(ids, parsed)
	}
	return ids, rows.Err()
}
