package technicals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestRSI_InsufficientData(t *testing.T) {
	assert.Nil(t, RSI(nil))
	assert.Nil(t, RSI(risingCloses(RSIPeriod)))
}

func TestRSI_MonotonicRise(t *testing.T) {
	rsi := RSI(risingCloses(50))
	require.NotNil(t, rsi)

	// A series with no down days pins RSI at 100.
	assert.InDelta(t, 100.0, *rsi, 0.01)
}

func TestRSI_Range(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		closes[i] = price
		if i%3 == 0 {
			price *= 0.99
		} else {
			price *= 1.005
		}
	}

	rsi := RSI(closes)
	require.NotNil(t, rsi)
	assert.Greater(t, *rsi, 0.0)
	assert.Less(t, *rsi, 100.0)
}

func TestSMADistance_InsufficientData(t *testing.T) {
	assert.Nil(t, SMADistance(risingCloses(SMAPeriod - 1)))
}

func TestSMADistance_AboveAverage(t *testing.T) {
	dist := SMADistance(risingCloses(SMAPeriod + 50))
	require.NotNil(t, dist)

	// A rising series keeps the latest close above its long average.
	assert.Greater(t, *dist, 0.0)
}

func TestSMADistance_FlatSeries(t *testing.T) {
	closes := make([]float64, SMAPeriod)
	for i := range closes {
		closes[i] = 50
	}

	dist := SMADistance(closes)
	require.NotNil(t, dist)
	assert.InDelta(t, 0.0, *dist, 1e-9)
}
