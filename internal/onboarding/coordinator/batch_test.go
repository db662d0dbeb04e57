package coordinator

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"onboard/internal/onboarding/models"
	onboardingstore "onboard/internal/onboarding/store/onboarding"
	rulesstore "onboard/internal/onboarding/store/rules"
	id "onboard/pkg/domain"
)

// staticRequirements serves the same requirement snapshot for every
// onboarding, which is all a batch recheck needs in this test.
type staticRequirements struct {
	status models.RequirementStatus
}

func (s staticRequirements) GetRequirements(_ context.Context, onboardingID id.OnboardingID) ([]models.Requirement, error) {
	return []models.Requirement{
		{ID: id.NewRequirementID(), OnboardingID: onboardingID, Name: "R1", Status: s.status},
	}, nil
}

func TestReevaluateAll(t *testing.T) {
	ctx := context.Background()
	store := onboardingstore.NewInMemory()
	rules := rulesstore.NewInMemory()

	program := id.ProgramGroupID(uuid.New())
	group := id.RequirementGroupID(uuid.New())
	require.NoError(t, rules.SetEngine(ctx, models.RulesEngine{
		ID:                 id.NewEngineID(),
		Name:               "batch",
		ProgramGroupID:     program,
		RequirementGroupID: group,
		Priority:           1,
		ConfigVersion:      1,
		Rules: []models.StatusRule{{
			ID:       id.NewRuleID(),
			Sequence: 1,
			Logic:    models.LogicAll,
			Checks: []models.RequirementCheck{
				{Name: "R1", RequiredStatus: models.RequirementComplete},
			},
			ResultingStatus: models.StatusPendingInitialReview,
		}},
	}))

	var ids []id.OnboardingID
	for range 20 {
		ob := models.Onboarding{
			ID:                 id.NewOnboardingID(),
			ProgramGroupID:     program,
			RequirementGroupID: group,
			Status:             models.StatusInProcess,
			Revision:           1,
		}
		require.NoError(t, store.Put(ctx, &ob))
		ids = append(ids, ob.ID)
	}
	// One unknown ID exercises the per-onboarding error collection.
	missing := id.NewOnboardingID()
	ids = append(ids, missing)

	c := New(store, staticRequirements{status: models.RequirementComplete}, rules)
	result, err := c.ReevaluateAll(ctx, ids, 4)
	require.NoError(t, err)
	require.Equal(t, 20, result.Succeeded)
	require.Equal(t, 1, result.Failed)
	require.Contains(t, result.Errors, missing)

	// Every commit went through the revision guard: each record advanced
	// exactly once.
	for _, onboardingID := range ids[:20] {
		ob, err := store.GetOnboarding(ctx, onboardingID)
		require.NoError(t, err)
		require.Equal(t, models.StatusPendingInitialReview, ob.Status)
		require.Equal(t, int64(2), ob.Revision)
	}
}
