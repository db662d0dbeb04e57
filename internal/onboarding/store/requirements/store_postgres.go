package requirements

import (
	"context"
	"database/sql"
	"fmt"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// PostgresStore reads requirement snapshots from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed requirement source.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetRequirements(ctx context.Context, onboardingID id.OnboardingID) ([]models.Requirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stage_id, group_id, name, status
		FROM requirements
		WHERE onboarding_id = $1
		ORDER BY name
	`, onboardingID.String())
	if err != nil {
		return nil, fmt.Errorf("get requirements: %w", err)
	}
	defer rows.Close()

	var out []models.Requirement
	for rows.Next() {
		var (
			req       models.Requirement
			rawID     string
			rawStage  sql.NullString
			rawGroup  string
			rawStatus string
		)
		if err := rows.Scan(&rawID, &rawStage, &rawGroup, &req.Name, &rawStatus); err != nil {
			return nil, fmt.Errorf("get requirements: %w", err)
		}
		if req.ID, err = id.ParseRequirementID(rawID); err != nil {
			return nil, fmt.Errorf("get requirements: %w", err)
		}
		if rawStage.Valid {
			if req.StageID, err = id.ParseStageID(rawStage.String); err != nil {
				return nil, fmt.Errorf("get requirements: %w", err)
			}
		}
		if req.GroupID, err = id.ParseRequirementGroupID(rawGroup); err != nil {
			return nil, fmt.Errorf("get requirements: %w", err)
		}
		if req.Status, err = models.ParseRequirementStatus(rawStatus); err != nil {
			return nil, fmt.Errorf("get requirements: %w", err)
		}
		req.OnboardingID = onboardingID
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get requirements: %w", err)
	}
	return out, nil
}
