package authz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type AllowListSuite struct {
	suite.Suite
	ctx  context.Context
	list *AllowList
}

func (s *AllowListSuite) SetupTest() {
	s.ctx = context.Background()
	s.list = NewAllowList()
	s.Require().NoError(s.list.Register("partner-portal", "s3cret", []string{"program-a", "program-b"}))
	s.Require().NoError(s.list.Register("back-office", "admin-pass", []string{"*"}))
}

func TestAllowListSuite(t *testing.T) {
	suite.Run(t, new(AllowListSuite))
}

func (s *AllowListSuite) TestIsAllowed() {
	cases := []struct {
		name    string
		source  string
		secret  string
		scope   []string
		allowed bool
	}{
		{"in-scope program", "partner-portal", "s3cret", []string{"program-a"}, true},
		{"multiple in-scope programs", "partner-portal", "s3cret", []string{"program-a", "program-b"}, true},
		{"out-of-scope program", "partner-portal", "s3cret", []string{"program-c"}, false},
		{"mixed scope denies whole request", "partner-portal", "s3cret", []string{"program-a", "program-c"}, false},
		{"empty scope", "partner-portal", "s3cret", nil, false},
		{"wrong secret", "partner-portal", "nope", []string{"program-a"}, false},
		{"unknown source", "ghost", "s3cret", []string{"program-a"}, false},
		{"wildcard grants anything", "back-office", "admin-pass", []string{"program-z"}, true},
		{"wildcard with empty scope", "back-office", "admin-pass", nil, true},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			allowed, err := s.list.IsAllowed(s.ctx, tc.source, tc.secret, tc.scope)
			s.Require().NoError(err)
			s.Equal(tc.allowed, allowed)
		})
	}
}

func (s *AllowListSuite) TestRegister() {
	s.Run("rejects empty source", func() {
		s.Error(s.list.Register("", "secret", nil))
	})

	s.Run("rejects empty secret", func() {
		s.Error(s.list.Register("x", "", nil))
	})

	s.Run("rejects overlong secret", func() {
		s.Error(s.list.Register("x", strings.Repeat("a", 100), nil))
	})

	s.Run("re-register replaces the secret", func() {
		s.Require().NoError(s.list.Register("partner-portal", "rotated", []string{"program-a"}))

		allowed, err := s.list.IsAllowed(s.ctx, "partner-portal", "s3cret", []string{"program-a"})
		s.Require().NoError(err)
		s.False(allowed)

		allowed, err = s.list.IsAllowed(s.ctx, "partner-portal", "rotated", []string{"program-a"})
		s.Require().NoError(err)
		s.True(allowed)
	})
}
