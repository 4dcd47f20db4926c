package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestStructure(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "Empty input",
			code:     "",
			expected: "",
		},
		{
			name:     "Letters then digits without hints",
			code:     "ABC123",
			expected: "ABC + 123  [L{3}N{3}]",
		},
		{
			name:     "Nine prefix and letter suffix",
			code:     "9123456A",
			expected: "9123456 + A  [N{7}L{1}] | starts with 9 (flag), letter suffix",
		},
		{
			name:     "Five digit serial",
			code:     "12345",
			expected: "12345  [N{5}] | possible numeric serial",
		},
		{
			name:     "Six digit serial inside larger code",
			code:     "AB123456",
			expected: "AB + 123456  [L{2}N{6}] | possible numeric serial",
		},
		{
			name:     "All hints at once",
			code:     "98765X",
			expected: "98765 + X  [N{5}L{1}] | starts with 9 (flag), letter suffix, possible numeric serial",
		},
		{
			name:     "Separator becomes its own token",
			code:     "A-B",
			expected: "A + - + B  [L{1}X{1}L{1}] | letter suffix",
		},
		{
			name:     "Consecutive separators stay single tokens",
			code:     "1--2",
			expected: "1 + - + - + 2  [N{1}X{1}X{1}N{1}]",
		},
		{
			name:     "Single nine has no flag hint",
			code:     "9",
			expected: "9  [N{1}]",
		},
		{
			name:     "Non-ASCII letters count as letters",
			code:     "caffè",
			expected: "caffè  [L{5}] | letter suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestStructure(tt.code))
		})
	}
}

func TestSuggestStructureDeterministic(t *testing.T) {
	inputs := []string{"", "9123456A", "ABC123", "x!y?z", "00A11B22"}
	for _, in := range inputs {
		first := SuggestStructure(in)
		second := SuggestStructure(in)
		assert.Equal(t, first, second, "input %q", in)
	}
}
