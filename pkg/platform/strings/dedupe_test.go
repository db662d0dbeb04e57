package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "trims whitespace",
			input:    []string{"  identity incomplete  ", "kyc pending "},
			expected: []string{"identity incomplete", "kyc pending"},
		},
		{
			name:     "drops duplicates keeping first-occurrence order",
			input:    []string{"program-a", "program-b", "program-a"},
			expected: []string{"program-a", "program-b"},
		},
		{
			name:     "drops empty and whitespace-only elements",
			input:    []string{"program-a", "", "   ", "program-b"},
			expected: []string{"program-a", "program-b"},
		},
		{
			// Duplicates that differ only after trimming collapse too.
			name:     "dedupes across trim",
			input:    []string{" program-a", "program-a ", "program-a"},
			expected: []string{"program-a"},
		},
		{
			name:     "case sensitive",
			input:    []string{"Program-A", "program-a"},
			expected: []string{"Program-A", "program-a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{"  Program-A ", "program-b", "PROGRAM-A"})
	assert.Equal(t, []string{"program-a", "program-b"}, got)
}
