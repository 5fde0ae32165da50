// Package technicals annotates screening records with trend indicators.
// The indicators are informational only and never gate a candidate.
package technicals

import (
	"github.com/markcheno/go-talib"
)

// RSIPeriod is the lookback for the relative strength index.
const RSIPeriod = 14

// SMAPeriod is the lookback for the long-term moving average.
const SMAPeriod = 200

// RSI returns the current 14-period relative strength index, or nil when
// the series is too short to compute one.
func RSI(closes []float64) *float64 {
	if len(closes) < RSIPeriod+1 {
		return nil
	}

	rsi := talib.Rsi(closes, RSIPeriod)
	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// SMADistance returns the percentage distance of the latest close from the
// 200-day simple moving average. Positive means price above the average.
// Returns nil when the series is too short.
func SMADistance(closes []float64) *float64 {
	if len(closes) < SMAPeriod {
		return nil
	}

	sma := talib.Sma(closes, SMAPeriod)
	if len(sma) == 0 {
		return nil
	}

	last := sma[len(sma)-1]
	if isNaN(last) || last == 0 {
		return nil
	}

	price := closes[len(closes)-1]
	result := (price - last) / last * 100
	return &result
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
