package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	onboarding models.Onboarding
}

func (s *EngineSuite) SetupTest() {
	s.onboarding = models.Onboarding{
		ID:                 id.NewOnboardingID(),
		ProgramGroupID:     id.ProgramGroupID(uuid.New()),
		RequirementGroupID: id.RequirementGroupID(uuid.New()),
		Status:             models.StatusInProcess,
		Revision:           1,
	}
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) requirement(name string, status models.RequirementStatus) models.Requirement {
	return models.Requirement{
		ID:           id.NewRequirementID(),
		OnboardingID: s.onboarding.ID,
		Name:         name,
		Status:       status,
	}
}

func (s *EngineSuite) rulesEngine(name string, priority int, rules ...models.StatusRule) models.RulesEngine {
	return models.RulesEngine{
		ID:                 id.NewEngineID(),
		Name:               name,
		ProgramGroupID:     s.onboarding.ProgramGroupID,
		RequirementGroupID: s.onboarding.RequirementGroupID,
		Priority:           priority,
		ConfigVersion:      1,
		Rules:              rules,
	}
}

func allRule(seq int, resulting models.OnboardingStatus, checks ...models.RequirementCheck) models.StatusRule {
	return models.StatusRule{
		ID:              id.NewRuleID(),
		Sequence:        seq,
		Logic:           models.LogicAll,
		Checks:          checks,
		ResultingStatus: resulting,
	}
}

// TestAllRule covers the basic pass and fail paths of an ALL rule.
func (s *EngineSuite) TestAllRule() {
	rule := allRule(1, models.StatusPendingInitialReview,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete},
		models.RequirementCheck{Name: "R2", RequiredStatus: models.RequirementComplete},
	)

	s.Run("both requirements complete passes and sets resulting status", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementComplete),
				s.requirement("R2", models.RequirementComplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusPendingInitialReview, res.FinalStatus)
		s.True(res.Changed)
		s.Require().Len(res.Trace, 1)
		s.True(res.Trace[0].Passed)
		s.Equal(models.StatusPendingInitialReview, res.Trace[0].ResultingStatus)
	})

	s.Run("one incomplete requirement fails and names it", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementComplete),
				s.requirement("R2", models.RequirementIncomplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusInProcess, res.FinalStatus)
		s.False(res.Changed)
		s.Require().Len(res.Trace, 1)
		s.False(res.Trace[0].Passed)
		s.Contains(res.Trace[0].Reason, "R2")
	})

	s.Run("approved satisfies a complete threshold", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementApproved),
				s.requirement("R2", models.RequirementComplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusPendingInitialReview, res.FinalStatus)
	})

	s.Run("denied requirement never satisfies an ordered threshold", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementDenied),
				s.requirement("R2", models.RequirementComplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.False(res.Trace[0].Passed)
	})

	s.Run("zero checks fails instead of passing vacuously", func() {
		empty := allRule(1, models.StatusComplete)
		res, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
			Engines:      []models.RulesEngine{s.rulesEngine("default", 1, empty)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusInProcess, res.FinalStatus)
		s.False(res.Changed)
		s.Require().Len(res.Trace, 1)
		s.False(res.Trace[0].Passed)
		s.Contains(res.Trace[0].Reason, "no requirement checks")
	})
}

func (s *EngineSuite) TestAnyRule() {
	rule := models.StatusRule{
		ID:       id.NewRuleID(),
		Sequence: 1,
		Logic:    models.LogicAny,
		Checks: []models.RequirementCheck{
			{Name: "R1", RequiredStatus: models.RequirementApproved},
			{Name: "R2", RequiredStatus: models.RequirementComplete},
		},
		ResultingStatus: models.StatusComplete,
	}

	s.Run("one satisfied check is enough", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementNotStarted),
				s.requirement("R2", models.RequirementComplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusComplete, res.FinalStatus)
	})

	s.Run("no satisfied check aggregates every reason", func() {
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementNotStarted),
				s.requirement("R2", models.RequirementIncomplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("default", 1, rule)},
		})
		s.Require().NoError(err)
		s.False(res.Trace[0].Passed)
		s.Contains(res.Trace[0].Reason, "R1")
		s.Contains(res.Trace[0].Reason, "R2")
	})
}

func (s *EngineSuite) TestCustomRule() {
	s.Run("custom expression delegates to the evaluator", func() {
		rule := models.StatusRule{
			ID:               id.NewRuleID(),
			Sequence:         1,
			Logic:            models.LogicCustom,
			CustomExpression: `R1 >= 'complete' AND R2 != 'denied'`,
			ResultingStatus:  models.StatusPendingInitialReview,
		}
		res, err := Evaluate(Input{
			Onboarding: s.onboarding,
			Requirements: []models.Requirement{
				s.requirement("R1", models.RequirementApproved),
				s.requirement("R2", models.RequirementIncomplete),
			},
			Engines: []models.RulesEngine{s.rulesEngine("custom", 1, rule)},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusPendingInitialReview, res.FinalStatus)
	})

	s.Run("malformed expression is absorbed as a failed rule", func() {
		bad := models.StatusRule{
			ID:               id.NewRuleID(),
			Sequence:         1,
			Logic:            models.LogicCustom,
			CustomExpression: `R1 >= `,
			ResultingStatus:  models.StatusComplete,
		}
		next := allRule(2, models.StatusPendingInitialReview,
			models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete})

		res, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
			Engines:      []models.RulesEngine{s.rulesEngine("mixed", 1, bad, next)},
		})
		s.Require().NoError(err, "per-rule evaluation errors must not abort the run")
		s.Require().Len(res.Trace, 2)
		s.False(res.Trace[0].Passed)
		s.Contains(res.Trace[0].Reason, "custom expression failed")
		s.True(res.Trace[1].Passed)
		s.Equal(models.StatusPendingInitialReview, res.FinalStatus)
	})
}

func (s *EngineSuite) TestShortCircuitWithinEngine() {
	first := allRule(1, models.StatusComplete,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete})
	second := allRule(2, models.StatusDenied,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementNotStarted})

	res, err := Evaluate(Input{
		Onboarding:   s.onboarding,
		Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
		Engines:      []models.RulesEngine{s.rulesEngine("default", 1, first, second)},
	})
	s.Require().NoError(err)

	// The second rule would also have matched but must never run.
	s.Require().Len(res.Trace, 1)
	s.NotEmpty(res.Trace[0].ShortCircuitReason)
	s.Equal(models.StatusComplete, res.FinalStatus)
}

func (s *EngineSuite) TestLastEngineWins() {
	early := s.rulesEngine("early", 1, allRule(1, models.StatusInProcess,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementIncomplete}))
	late := s.rulesEngine("late", 2, allRule(1, models.StatusPendingInitialReview,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete}))

	s.Run("later engine candidate overrides the earlier one", func() {
		res, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
			Engines:      []models.RulesEngine{late, early}, // input order must not matter
		})
		s.Require().NoError(err)
		s.Equal(models.StatusPendingInitialReview, res.FinalStatus)
	})

	s.Run("earlier engine candidate stands when the later one fails", func() {
		res, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementIncomplete)},
			Engines:      []models.RulesEngine{early, late},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusInProcess, res.FinalStatus)
	})
}

func (s *EngineSuite) TestTerminalStatusSticky() {
	rule := allRule(1, models.StatusComplete,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete})

	for _, terminal := range []models.OnboardingStatus{models.StatusDenied, models.StatusExpired} {
		s.Run(string(terminal), func() {
			ob := s.onboarding
			ob.Status = terminal
			res, err := Evaluate(Input{
				Onboarding:   ob,
				Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
				Engines:      []models.RulesEngine{s.rulesEngine("default", 1, rule)},
			})
			s.Require().NoError(err)
			s.Equal(terminal, res.FinalStatus)
			s.False(res.Changed)
			// The trace still records what evaluation found.
			s.Require().Len(res.Trace, 1)
			s.True(res.Trace[0].Passed)
		})
	}
}

func (s *EngineSuite) TestTraceOrderingAndIdempotence() {
	engines := []models.RulesEngine{
		s.rulesEngine("a", 1,
			allRule(1, models.StatusInProcess, models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementApproved}),
			allRule(2, models.StatusInProcess, models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementApproved}),
		),
		s.rulesEngine("b", 2,
			allRule(1, models.StatusPendingInitialReview, models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete}),
		),
	}
	in := Input{
		Onboarding:   s.onboarding,
		Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
		Engines:      engines,
	}

	first, err := Evaluate(in)
	s.Require().NoError(err)

	s.Run("rule order strictly increases across engines", func() {
		for i := 1; i < len(first.Trace); i++ {
			s.Greater(first.Trace[i].RuleOrder, first.Trace[i-1].RuleOrder)
		}
	})

	s.Run("identical input produces identical result", func() {
		second, err := Evaluate(in)
		s.Require().NoError(err)
		s.Equal(first.FinalStatus, second.FinalStatus)
		s.Equal(first.Trace, second.Trace)
	})
}

func (s *EngineSuite) TestEngineFilter() {
	early := s.rulesEngine("early", 1, allRule(1, models.StatusInProcess,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementIncomplete}))
	late := s.rulesEngine("late", 2, allRule(1, models.StatusPendingInitialReview,
		models.RequirementCheck{Name: "R1", RequiredStatus: models.RequirementComplete}))

	s.Run("filter narrows evaluation to the named engine", func() {
		res, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
			Engines:      []models.RulesEngine{early, late},
			EngineFilter: []id.EngineID{early.ID},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusInProcess, res.FinalStatus)
		s.Require().Len(res.Trace, 1)
		s.Equal("early", res.Trace[0].EngineName)
	})

	s.Run("filter referencing an unknown engine is a configuration error", func() {
		_, err := Evaluate(Input{
			Onboarding:   s.onboarding,
			Requirements: []models.Requirement{s.requirement("R1", models.RequirementComplete)},
			Engines:      []models.RulesEngine{early},
			EngineFilter: []id.EngineID{id.NewEngineID()},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func (s *EngineSuite) TestNoRulePassed() {
	s.Run("no engines yields current status and empty trace", func() {
		res, err := Evaluate(Input{Onboarding: s.onboarding})
		s.Require().NoError(err)
		s.Equal(models.StatusInProcess, res.FinalStatus)
		s.False(res.Changed)
		s.Empty(res.Trace)
	})
}
