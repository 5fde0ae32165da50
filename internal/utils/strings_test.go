package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "BULLISH",
			expected: []string{"BULLISH"},
		},
		{
			name:     "two values",
			input:    "BULLISH, NEUTRAL",
			expected: []string{"BULLISH", "NEUTRAL"},
		},
		{
			name:     "three values with varied spacing",
			input:    "BULLISH,  NEUTRAL , BEARISH",
			expected: []string{"BULLISH", "NEUTRAL", "BEARISH"},
		},
		{
			name:     "no spaces after comma",
			input:    "AAPL,MSFT",
			expected: []string{"AAPL", "MSFT"},
		},
		{
			name:     "trailing comma",
			input:    "AAPL,",
			expected: []string{"AAPL"},
		},
		{
			name:     "leading comma",
			input:    ",MSFT",
			expected: []string{"MSFT"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "comma only",
			input:    ",",
			expected: nil,
		},
		{
			name:     "multiple commas",
			input:    ",,AAPL,,MSFT,,",
			expected: []string{"AAPL", "MSFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCSV_PreservesInput(t *testing.T) {
	// Verify that the function doesn't modify the input string
	input := "BULLISH, NEUTRAL"
	originalInput := input

	_ = ParseCSV(input)

	assert.Equal(t, originalInput, input, "input should not be modified")
}

func TestCleanTicker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already clean",
			input:    "AAPL",
			expected: "AAPL",
		},
		{
			name:     "lowercase",
			input:    "msft",
			expected: "MSFT",
		},
		{
			name:     "dot converted to dash",
			input:    "BRK.B",
			expected: "BRK-B",
		},
		{
			name:     "whitespace trimmed",
			input:    "  NVDA  ",
			expected: "NVDA",
		},
		{
			name:     "stray characters stripped",
			input:    "TSLA$!",
			expected: "TSLA",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTicker(tt.input))
		})
	}
}
