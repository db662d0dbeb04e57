package stages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// PostgresStore reads the stage graph from PostgreSQL. Predecessor sets are
// stored as a uuid array on the stage row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed stage store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetStages(ctx context.Context, processID id.ProcessID) ([]models.Stage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sequence, required_stage_ids, blocked, block_reason, completed
		FROM stages
		WHERE process_id = $1
		ORDER BY sequence
	`, processID.String())
	if err != nil {
		return nil, fmt.Errorf("get stages: %w", err)
	}
	defer rows.Close()

	var out []models.Stage
	for rows.Next() {
		var (
			st          models.Stage
			rawID       string
			rawPreds    []string
			blockReason sql.NullString
		)
		if err := rows.Scan(&rawID, &st.Name, &st.Sequence, pq.Array(&rawPreds), &st.Blocked, &blockReason, &st.Completed); err != nil {
			return nil, fmt.Errorf("get stages: %w", err)
		}
		if st.ID, err = id.ParseStageID(rawID); err != nil {
			return nil, fmt.Errorf("get stages: %w", err)
		}
		st.ProcessID = processID
		st.BlockReason = blockReason.String
		for _, rawPred := range rawPreds {
			pred, err := id.ParseStageID(rawPred)
			if err != nil {
				return nil, fmt.Errorf("get stages: %w", err)
			}
			st.RequiredStageIDs = append(st.RequiredStageIDs, pred)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
