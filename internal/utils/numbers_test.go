package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, SafeDivide(10, 5, 0))
	assert.Equal(t, 0.0, SafeDivide(10, 0, 0))
	assert.Equal(t, -1.0, SafeDivide(10, 0, -1))
	assert.Equal(t, 0.0, SafeDivide(math.NaN(), 5, 0))
	assert.Equal(t, 0.0, SafeDivide(10, math.Inf(1), 0))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.23456))
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.2, Round1(1.24))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"trillions", 1.5e12, "$1.5T"},
		{"billions", 100e9, "$100.0B"},
		{"millions", 2.5e6, "$2.5M"},
		{"thousands", 5e3, "$5.0K"},
		{"small", 42.0, "$42.00"},
		{"zero", 0, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.value, 1))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "42.5%", FormatPercentage(42.51, 1))
	assert.Equal(t, "N/A", FormatPercentage(math.NaN(), 1))
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "1.35", FormatRatio(1.3456, 2))
	assert.Equal(t, "N/A", FormatRatio(math.Inf(1), 2))
}
