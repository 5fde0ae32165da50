// Package volatility computes historical volatility from daily closes and
// derives an implied volatility proxy for tickers without an options feed.
package volatility

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/shivvp96/LeapFinder/internal/domain"
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// DefaultReturnWindow is the number of most recent daily returns used for
// the historical volatility estimate.
const DefaultReturnWindow = 30

// Estimator computes annualized historical volatility.
type Estimator struct {
	window int
}

// NewEstimator creates an estimator over the given return window.
// A non-positive window falls back to DefaultReturnWindow.
func NewEstimator(window int) *Estimator {
	if window <= 0 {
		window = DefaultReturnWindow
	}
	return &Estimator{window: window}
}

// Historical returns the annualized historical volatility in percent:
// the sample standard deviation of the last `window` simple daily returns,
// scaled by sqrt(252) and expressed as a percentage.
//
// Returns domain.ErrInsufficient when the series yields fewer returns than
// the window requires. Zero closes are skipped as return bases to avoid
// division blowups from bad provider data.
func (e *Estimator) Historical(closes []float64) (float64, error) {
	returns := dailyReturns(closes)
	if len(returns) < e.window {
		return 0, domain.ErrInsufficient
	}

	recent := returns[len(returns)-e.window:]
	sd := stat.StdDev(recent, nil)
	if math.IsNaN(sd) {
		return 0, domain.ErrInsufficient
	}

	return sd * math.Sqrt(TradingDaysPerYear) * 100, nil
}

// Window returns the configured return window.
func (e *Estimator) Window() int {
	return e.window
}

// dailyReturns computes simple returns between consecutive closes.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (closes[i]-prev)/prev)
	}
	return returns
}
