package rules

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

// PostgresStore reads rule configuration from PostgreSQL through a pgx pool.
// Rule configuration is read-heavy and admin-written, so no write methods
// exist here; edits happen through the configuration system that owns the
// tables and bumps config_version.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a pgx-backed rules source.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetApplicableEngines(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) ([]models.RulesEngine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, priority, config_version
		FROM rules_engines
		WHERE program_group_id = $1 AND requirement_group_id = $2
		ORDER BY priority, id
	`, programGroupID.String(), requirementGroupID.String())
	if err != nil {
		return nil, fmt.Errorf("get applicable engines: %w", err)
	}
	defer rows.Close()

	var engines []models.RulesEngine
	for rows.Next() {
		var (
			eng   models.RulesEngine
			rawID string
		)
		if err := rows.Scan(&rawID, &eng.Name, &eng.Priority, &eng.ConfigVersion); err != nil {
			return nil, fmt.Errorf("get applicable engines: %w", err)
		}
		if eng.ID, err = id.ParseEngineID(rawID); err != nil {
			return nil, fmt.Errorf("get applicable engines: %w", err)
		}
		eng.ProgramGroupID = programGroupID
		eng.RequirementGroupID = requirementGroupID
		engines = append(engines, eng)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get applicable engines: %w", err)
	}

	for i := range engines {
		if err := s.loadRules(ctx, &engines[i]); err != nil {
			return nil, err
		}
	}
	return engines, nil
}

func (s *PostgresStore) loadRules(ctx context.Context, eng *models.RulesEngine) error {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.sequence, r.logic, r.custom_expression, r.resulting_status,
		       c.requirement_name, c.required_status
		FROM status_rules r
		LEFT JOIN rule_checks c ON c.rule_id = r.id
		WHERE r.engine_id = $1
		ORDER BY r.sequence, c.requirement_name
	`, eng.ID.String())
	if err != nil {
		return fmt.Errorf("load rules for engine %s: %w", eng.ID, err)
	}
	defer rows.Close()

	byRule := make(map[id.RuleID]int)
	for rows.Next() {
		var (
			rawID      string
			sequence   int
			logic      string
			custom     *string
			resulting  string
			checkName  *string
			checkState *string
		)
		if err := rows.Scan(&rawID, &sequence, &logic, &custom, &resulting, &checkName, &checkState); err != nil {
			return fmt.Errorf("load rules for engine %s: %w", eng.ID, err)
		}
		ruleID, err := id.ParseRuleID(rawID)
		if err != nil {
			return fmt.Errorf("load rules for engine %s: %w", eng.ID, err)
		}

		idx, ok := byRule[ruleID]
		if !ok {
			rule := models.StatusRule{
				ID:              ruleID,
				Sequence:        sequence,
				Logic:           models.EvaluationLogic(logic),
				ResultingStatus: models.OnboardingStatus(resulting),
			}
			if custom != nil {
				rule.CustomExpression = *custom
			}
			eng.Rules = append(eng.Rules, rule)
			idx = len(eng.Rules) - 1
			byRule[ruleID] = idx
		}
		if checkName != nil && checkState != nil {
			eng.Rules[idx].Checks = append(eng.Rules[idx].Checks, models.RequirementCheck{
				Name:           *checkName,
				RequiredStatus: models.RequirementStatus(*checkState),
			})
		}
	}
	return rows.Err()
}

func (s *PostgresStore) ConfigVersion(ctx context.Context, programGroupID id.ProgramGroupID, requirementGroupID id.RequirementGroupID) (int64, error) {
	var version int64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(config_version), 0)
		FROM rules_engines
		WHERE program_group_id = $1 AND requirement_group_id = $2
	`, programGroupID.String(), requirementGroupID.String()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("config version: %w", err)
	}
	return version, nil
}
