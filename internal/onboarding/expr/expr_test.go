package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "onboard/pkg/domain-errors"
)

type ExprSuite struct {
	suite.Suite
	bindings Bindings
}

func (s *ExprSuite) SetupTest() {
	s.bindings = Bindings{
		"background_check": "complete",
		"drug_screen":      "approved",
		"tax_form":         "incomplete",
		"license":          "denied",
		"notes":            "  ",
		"ssn":              "123-45-6789",
	}
}

func TestExprSuite(t *testing.T) {
	suite.Run(t, new(ExprSuite))
}

func (s *ExprSuite) eval(src string) bool {
	ok, err := Evaluate(src, s.bindings)
	s.Require().NoError(err, "expression %q", src)
	return ok
}

func (s *ExprSuite) TestComparisons() {
	s.Run("equality is case-insensitive", func() {
		s.True(s.eval(`background_check = 'Complete'`))
		s.False(s.eval(`background_check = 'approved'`))
	})

	s.Run("inequality with both spellings", func() {
		s.True(s.eval(`tax_form != 'complete'`))
		s.True(s.eval(`tax_form <> 'complete'`))
		s.False(s.eval(`tax_form != 'incomplete'`))
	})

	s.Run("ordering follows the status ranking", func() {
		s.True(s.eval(`background_check >= 'incomplete'`))
		s.True(s.eval(`drug_screen > 'complete'`))
		s.False(s.eval(`tax_form >= 'complete'`))
		s.True(s.eval(`tax_form < 'complete'`))
	})

	s.Run("denied only matches explicit equality", func() {
		s.True(s.eval(`license = 'denied'`))
		s.False(s.eval(`background_check = 'denied'`))

		_, err := Evaluate(`license >= 'complete'`, s.bindings)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEvaluation))
	})
}

func (s *ExprSuite) TestBooleanConnectives() {
	s.Run("and or not with precedence", func() {
		s.True(s.eval(`background_check = 'complete' AND drug_screen = 'approved'`))
		s.True(s.eval(`tax_form = 'complete' OR drug_screen = 'approved'`))
		s.False(s.eval(`NOT drug_screen = 'approved'`))
		// AND binds tighter than OR.
		s.True(s.eval(`tax_form = 'complete' AND license = 'denied' OR background_check = 'complete'`))
	})

	s.Run("parentheses override precedence", func() {
		s.False(s.eval(`tax_form = 'complete' AND (license = 'denied' OR background_check = 'complete')`))
	})

	s.Run("keywords are case-insensitive", func() {
		s.True(s.eval(`background_check = 'complete' and not tax_form = 'complete'`))
	})

	s.Run("or short-circuits before evaluating an erroring branch", func() {
		// The right side references an unknown field, but the left side
		// already decides the result.
		ok, err := Evaluate(`background_check = 'complete' OR no_such_field = 'x'`, s.bindings)
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *ExprSuite) TestFunctions() {
	s.Run("ISBLANK treats whitespace as blank", func() {
		s.True(s.eval(`ISBLANK(notes)`))
		s.False(s.eval(`ISBLANK(ssn)`))
		s.True(s.eval(`NOTBLANK(ssn)`))
	})

	s.Run("LEN compares byte length", func() {
		s.True(s.eval(`LEN(ssn) = 11`))
		s.True(s.eval(`LEN(ssn) >= 9`))
		s.False(s.eval(`LEN(ssn) < 5`))
	})

	s.Run("MATCHES runs the compiled pattern", func() {
		s.True(s.eval(`MATCHES(ssn, "^\d{3}-\d{2}-\d{4}$")`))
		s.False(s.eval(`MATCHES(notes, "\d")`))
	})
}

func (s *ExprSuite) TestErrors() {
	cases := []struct {
		name string
		src  string
	}{
		{"empty expression", "   "},
		{"unterminated string", `field = 'oops`},
		{"dangling operator", `background_check =`},
		{"unknown trailing token", `background_check = 'complete' extra`},
		{"bad regex at compile time", `MATCHES(ssn, "[unclosed")`},
		{"lone bang", `background_check ! 'complete'`},
		{"missing closing paren", `(background_check = 'complete'`},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := Compile(tc.src)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeEvaluation))
		})
	}

	s.Run("unknown field is an evaluation error not false", func() {
		_, err := Evaluate(`missing = 'complete'`, s.bindings)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEvaluation))
	})

	s.Run("nesting beyond the depth cap is rejected", func() {
		deep := strings.Repeat("(", 40) + `background_check = 'complete'` + strings.Repeat(")", 40)
		_, err := Compile(deep)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEvaluation))
	})
}

func (s *ExprSuite) TestCompileOnceEvalMany() {
	prog, err := Compile(`background_check >= 'complete' AND NOTBLANK(ssn)`)
	s.Require().NoError(err)

	ok, err := prog.Eval(s.bindings)
	s.Require().NoError(err)
	s.True(ok)

	weaker := Bindings{"background_check": "incomplete", "ssn": "x"}
	ok, err = prog.Eval(weaker)
	s.Require().NoError(err)
	s.False(ok)
}
