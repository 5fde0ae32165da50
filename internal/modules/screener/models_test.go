package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
)

func TestCriteria_Clamped(t *testing.T) {
	c := Criteria{
		MinDropFromATHPct: 5, // below the 10 floor
		MinIVHVRatio:      9, // above the 3.0 ceiling
	}

	got := c.Clamped()
	assert.Equal(t, 10.0, got.MinDropFromATHPct)
	assert.Equal(t, 3.0, got.MinIVHVRatio)

	c = Criteria{MinDropFromATHPct: 95, MinIVHVRatio: 0.5}
	got = c.Clamped()
	assert.Equal(t, 80.0, got.MinDropFromATHPct)
	assert.Equal(t, 1.0, got.MinIVHVRatio)

	// In-range values pass through untouched.
	c = Criteria{MinDropFromATHPct: 40, MinIVHVRatio: 1.25}
	got = c.Clamped()
	assert.Equal(t, 40.0, got.MinDropFromATHPct)
	assert.Equal(t, 1.25, got.MinIVHVRatio)
}

func TestCriteria_Clamped_EmptySentimentsAdmitAll(t *testing.T) {
	got := Criteria{}.Clamped()

	assert.ElementsMatch(t,
		[]sentiment.Label{sentiment.Bullish, sentiment.Neutral, sentiment.Bearish},
		got.Sentiments)
}

func TestCriteria_AllowsSentiment(t *testing.T) {
	c := Criteria{Sentiments: []sentiment.Label{sentiment.Bullish, sentiment.Neutral}}

	assert.True(t, c.AllowsSentiment(sentiment.Bullish))
	assert.True(t, c.AllowsSentiment(sentiment.Neutral))
	assert.False(t, c.AllowsSentiment(sentiment.Bearish))
}
