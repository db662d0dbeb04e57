package rules

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx          context.Context
	store        *InMemory
	programGroup id.ProgramGroupID
	reqGroup     id.RequirementGroupID
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.programGroup = id.ProgramGroupID(uuid.New())
	s.reqGroup = id.RequirementGroupID(uuid.New())
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) engine(name string, version int64) models.RulesEngine {
	return models.RulesEngine{
		ID:                 id.NewEngineID(),
		Name:               name,
		ProgramGroupID:     s.programGroup,
		RequirementGroupID: s.reqGroup,
		Priority:           1,
		ConfigVersion:      version,
	}
}

func (s *MemoryStoreSuite) TestScopeMatching() {
	s.Require().NoError(s.store.SetEngine(s.ctx, s.engine("in-scope", 1)))

	other := s.engine("other-scope", 1)
	other.ProgramGroupID = id.ProgramGroupID(uuid.New())
	s.Require().NoError(s.store.SetEngine(s.ctx, other))

	engines, err := s.store.GetApplicableEngines(s.ctx, s.programGroup, s.reqGroup)
	s.Require().NoError(err)
	s.Require().Len(engines, 1)
	s.Equal("in-scope", engines[0].Name)
}

func (s *MemoryStoreSuite) TestSetEngineBumpsVersionOnReplace() {
	eng := s.engine("default", 3)
	s.Require().NoError(s.store.SetEngine(s.ctx, eng))

	s.Run("replacing with a stale version still moves forward", func() {
		eng.Name = "edited"
		eng.ConfigVersion = 3
		s.Require().NoError(s.store.SetEngine(s.ctx, eng))

		engines, err := s.store.GetApplicableEngines(s.ctx, s.programGroup, s.reqGroup)
		s.Require().NoError(err)
		s.Require().Len(engines, 1)
		s.Equal("edited", engines[0].Name)
		s.Equal(int64(4), engines[0].ConfigVersion)
	})

	s.Run("explicit higher version is kept as-is", func() {
		eng.ConfigVersion = 10
		s.Require().NoError(s.store.SetEngine(s.ctx, eng))

		version, err := s.store.ConfigVersion(s.ctx, s.programGroup, s.reqGroup)
		s.Require().NoError(err)
		s.Equal(int64(10), version)
	})
}

func (s *MemoryStoreSuite) TestConfigVersionIsScopedMax() {
	s.Require().NoError(s.store.SetEngine(s.ctx, s.engine("a", 2)))
	s.Require().NoError(s.store.SetEngine(s.ctx, s.engine("b", 7)))

	outside := s.engine("outside", 99)
	outside.RequirementGroupID = id.RequirementGroupID(uuid.New())
	s.Require().NoError(s.store.SetEngine(s.ctx, outside))

	version, err := s.store.ConfigVersion(s.ctx, s.programGroup, s.reqGroup)
	s.Require().NoError(err)
	s.Equal(int64(7), version)

	s.Run("empty scope reports zero", func() {
		version, err := s.store.ConfigVersion(s.ctx, id.ProgramGroupID(uuid.New()), s.reqGroup)
		s.Require().NoError(err)
		s.Zero(version)
	})
}
