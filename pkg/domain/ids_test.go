package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboard/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
//
// Justification: This is a pure function enforcing a domain invariant
// at trust boundaries.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseOnboardingID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseOnboardingID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseOnboardingID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseOnboardingID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, OnboardingID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	onboardingID := OnboardingID(uuid.New())
	stageID := StageID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ OnboardingID = stageID   // compile error
	// var _ StageID = onboardingID   // compile error

	// Verify they're distinct at runtime too
	assert.NotEqual(t, uuid.UUID(onboardingID), uuid.UUID(stageID))
}

// TestParseID_SecurityInvariants validates security-critical parsing rules.
//
// Justification: These are trust boundary invariants - parsing must reject
// attack vectors at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE onboardings;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400​-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		// Note: uuid.Parse trims whitespace, so " uuid " is accepted as valid

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOnboardingID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types have identical parsing behavior.
//
// Justification: Inconsistent validation across ID types could create security holes.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errOnboarding := ParseOnboardingID(validUUID)
		_, errRequirement := ParseRequirementID(validUUID)
		_, errStage := ParseStageID(validUUID)
		_, errProcess := ParseProcessID(validUUID)
		_, errEngine := ParseEngineID(validUUID)
		_, errRule := ParseRuleID(validUUID)
		_, errOverride := ParseOverrideID(validUUID)
		_, errProgram := ParseProgramGroupID(validUUID)
		_, errGroup := ParseRequirementGroupID(validUUID)

		assert.NoError(t, errOnboarding)
		assert.NoError(t, errRequirement)
		assert.NoError(t, errStage)
		assert.NoError(t, errProcess)
		assert.NoError(t, errEngine)
		assert.NoError(t, errRule)
		assert.NoError(t, errOverride)
		assert.NoError(t, errProgram)
		assert.NoError(t, errGroup)
	})

	t.Run("all reject invalid input", func(t *testing.T) {
		for _, input := range invalidInputs {
			_, errOnboarding := ParseOnboardingID(input)
			_, errStage := ParseStageID(input)
			_, errEngine := ParseEngineID(input)
			_, errRule := ParseRuleID(input)
			_, errOverride := ParseOverrideID(input)

			assert.Error(t, errOnboarding, "OnboardingID should reject %q", input)
			assert.Error(t, errStage, "StageID should reject %q", input)
			assert.Error(t, errEngine, "EngineID should reject %q", input)
			assert.Error(t, errRule, "RuleID should reject %q", input)
			assert.Error(t, errOverride, "OverrideID should reject %q", input)
		}
	})
}

// TestParseRoundTrip covers the parse functions the stores use to rehydrate
// persisted IDs.
func TestParseRoundTrip(t *testing.T) {
	t.Run("rule id", func(t *testing.T) {
		want := NewRuleID()
		got, err := ParseRuleID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("override id", func(t *testing.T) {
		want := NewOverrideID()
		got, err := ParseOverrideID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
