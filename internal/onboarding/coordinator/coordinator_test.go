package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onboard/internal/onboarding/mocks"
	"onboard/internal/onboarding/models"
	onboardingstore "onboard/internal/onboarding/store/onboarding"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

type CoordinatorSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	sink         *mocks.MockStatusSink
	requirements *mocks.MockRequirementSource
	rules        *mocks.MockRulesSource
	coordinator  *Coordinator
	ctx          context.Context

	onboarding models.Onboarding
	engines    []models.RulesEngine
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sink = mocks.NewMockStatusSink(s.ctrl)
	s.requirements = mocks.NewMockRequirementSource(s.ctrl)
	s.rules = mocks.NewMockRulesSource(s.ctrl)
	s.coordinator = New(s.sink, s.requirements, s.rules)
	s.ctx = context.Background()

	s.onboarding = models.Onboarding{
		ID:                 id.NewOnboardingID(),
		ProgramGroupID:     id.ProgramGroupID(uuid.New()),
		RequirementGroupID: id.RequirementGroupID(uuid.New()),
		Status:             models.StatusInProcess,
		Revision:           7,
	}
	s.engines = []models.RulesEngine{{
		ID:                 id.NewEngineID(),
		Name:               "default",
		ProgramGroupID:     s.onboarding.ProgramGroupID,
		RequirementGroupID: s.onboarding.RequirementGroupID,
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
	}}
}

func (s *CoordinatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) expectSnapshot(ob models.Onboarding, reqStatus models.RequirementStatus) {
	cp := ob
	s.sink.EXPECT().GetOnboarding(gomock.Any(), ob.ID).Return(&cp, nil)
	s.requirements.EXPECT().GetRequirements(gomock.Any(), ob.ID).Return([]models.Requirement{
		{ID: id.NewRequirementID(), OnboardingID: ob.ID, Name: "R1", Status: reqStatus},
	}, nil)
	s.rules.EXPECT().GetApplicableEngines(gomock.Any(), ob.ProgramGroupID, ob.RequirementGroupID).Return(s.engines, nil)
}

func (s *CoordinatorSuite) TestEvaluateAndCommit() {
	s.Run("commits the candidate status against the read revision", func() {
		s.expectSnapshot(s.onboarding, models.RequirementComplete)
		committed := s.onboarding
		committed.Status = models.StatusPendingInitialReview
		committed.Revision = 8
		s.sink.EXPECT().
			CommitStatus(gomock.Any(), s.onboarding.ID, int64(7), models.StatusPendingInitialReview).
			Return(&committed, nil)

		outcome, err := s.coordinator.EvaluateAndCommit(s.ctx, s.onboarding.ID)
		s.Require().NoError(err)
		s.True(outcome.Committed)
		s.Equal(models.StatusPendingInitialReview, outcome.FinalStatus)
		s.Equal(int64(8), outcome.Onboarding.Revision)
		s.Equal(1, outcome.Attempts)
	})

	s.Run("skips the write when evaluation changes nothing", func() {
		s.expectSnapshot(s.onboarding, models.RequirementIncomplete)
		// No CommitStatus expectation: a write would fail the test.

		outcome, err := s.coordinator.EvaluateAndCommit(s.ctx, s.onboarding.ID)
		s.Require().NoError(err)
		s.False(outcome.Committed)
		s.False(outcome.Changed)
		s.Equal(models.StatusInProcess, outcome.FinalStatus)
	})

	s.Run("unknown onboarding surfaces not found", func() {
		missing := id.NewOnboardingID()
		s.sink.EXPECT().GetOnboarding(gomock.Any(), missing).Return(nil, sentinel.ErrNotFound)

		_, err := s.coordinator.EvaluateAndCommit(s.ctx, missing)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// TestConflictRetry reproduces the racing-evaluations scenario: the first
// commit loses the revision race, the evaluation reloads the fresh record and
// commits against the new revision.
func (s *CoordinatorSuite) TestConflictRetry() {
	s.expectSnapshot(s.onboarding, models.RequirementComplete)
	s.sink.EXPECT().
		CommitStatus(gomock.Any(), s.onboarding.ID, int64(7), models.StatusPendingInitialReview).
		Return(nil, sentinel.ErrConflict)

	reloaded := s.onboarding
	reloaded.Revision = 8
	s.expectSnapshot(reloaded, models.RequirementComplete)
	committed := reloaded
	committed.Status = models.StatusPendingInitialReview
	committed.Revision = 9
	s.sink.EXPECT().
		CommitStatus(gomock.Any(), s.onboarding.ID, int64(8), models.StatusPendingInitialReview).
		Return(&committed, nil)

	outcome, err := s.coordinator.EvaluateAndCommit(s.ctx, s.onboarding.ID)
	s.Require().NoError(err)
	s.True(outcome.Committed)
	s.Equal(2, outcome.Attempts)
	s.Equal(int64(9), outcome.Onboarding.Revision)
}

func (s *CoordinatorSuite) TestConflictExhaustsRetries() {
	for range 3 {
		s.expectSnapshot(s.onboarding, models.RequirementComplete)
		s.sink.EXPECT().
			CommitStatus(gomock.Any(), s.onboarding.ID, int64(7), models.StatusPendingInitialReview).
			Return(nil, sentinel.ErrConflict)
	}

	_, err := s.coordinator.EvaluateAndCommit(s.ctx, s.onboarding.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *CoordinatorSuite) TestPreview() {
	s.Run("never commits even when the status would change", func() {
		s.expectSnapshot(s.onboarding, models.RequirementComplete)

		outcome, err := s.coordinator.Preview(s.ctx, s.onboarding.ID, time.Now(), nil)
		s.Require().NoError(err)
		s.False(outcome.Committed)
		s.True(outcome.Changed)
		s.Equal(models.StatusPendingInitialReview, outcome.FinalStatus)
	})

	s.Run("engine filter narrows the preview", func() {
		s.expectSnapshot(s.onboarding, models.RequirementComplete)

		outcome, err := s.coordinator.Preview(s.ctx, s.onboarding.ID, time.Now(), []id.EngineID{s.engines[0].ID})
		s.Require().NoError(err)
		s.Require().Len(outcome.Trace, 1)
		s.Equal("default", outcome.Trace[0].EngineName)
	})
}

// TestOneCommitPerRevision races many evaluations over the real in-memory
// CAS store and checks that every revision value is consumed at most once.
func TestOneCommitPerRevision(t *testing.T) {
	store := onboardingstore.NewInMemory()
	ctx := context.Background()

	ob := models.Onboarding{
		ID:                 id.NewOnboardingID(),
		ProgramGroupID:     id.ProgramGroupID(uuid.New()),
		RequirementGroupID: id.RequirementGroupID(uuid.New()),
		Status:             models.StatusInProcess,
		Revision:           7,
	}
	if err := store.Put(ctx, &ob); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	successes := make(chan int64, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			committed, err := store.CommitStatus(ctx, ob.ID, 7, models.StatusPendingInitialReview)
			if err == nil {
				successes <- committed.Revision
			}
		}()
	}
	wg.Wait()
	close(successes)

	var wins int
	for range successes {
		wins++
	}
	if wins != 1 {
		t.Fatalf("expected exactly one commit against revision 7, got %d", wins)
	}
}
