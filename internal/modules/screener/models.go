// Package screener runs the multi-stage LEAP candidate screening pipeline
// and persists run history and results.
package screener

import (
	"time"

	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
)

// Pipeline tuning constants.
const (
	// HistoryDays is the price lookback fetched for the fundamental and
	// volatility stages (roughly five years of calendar days).
	HistoryDays = 1825

	// EarningsWindowDays is the forward window for has_earnings_soon.
	EarningsWindowDays = 30

	// HeadlineLookbackDays bounds news recency for sentiment.
	HeadlineLookbackDays = 14

	// MaxHeadlines caps how many headlines feed the classifier.
	MaxHeadlines = 10
)

// Criteria holds the thresholds for one screening run.
type Criteria struct {
	Market                  string            `json:"market"`
	MinDropFromATHPct       float64           `json:"min_drop_from_ath_pct"`
	MinMarketCapUSD         float64           `json:"min_market_cap_usd"`
	MinIVHVRatio            float64           `json:"min_iv_hv_ratio"`
	Sentiments              []sentiment.Label `json:"sentiments"`
	RequireUpcomingEarnings bool              `json:"require_upcoming_earnings"`
}

// Clamped returns a copy with out-of-range thresholds pinned into their
// documented bounds: drop percentage into [10, 80] and IV/HV ratio into
// [1.0, 3.0]. An empty sentiment set admits every label.
func (c Criteria) Clamped() Criteria {
	out := c
	out.MinDropFromATHPct = clamp(c.MinDropFromATHPct, 10, 80)
	out.MinIVHVRatio = clamp(c.MinIVHVRatio, 1.0, 3.0)

	if len(out.Sentiments) == 0 {
		out.Sentiments = []sentiment.Label{sentiment.Bullish, sentiment.Neutral, sentiment.Bearish}
	}
	return out
}

// AllowsSentiment reports whether the label passes the sentiment filter.
func (c Criteria) AllowsSentiment(label sentiment.Label) bool {
	for _, s := range c.Sentiments {
		if s == label {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Record is one surviving candidate. It is born at the fundamental stage
// and enriched by later stages; stages add fields but never rewrite
// earlier ones, and a record that fails a stage predicate is discarded
// rather than nulled.
type Record struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	Sector      string  `json:"sector"`
	MarketCap   float64 `json:"market_cap"`

	CurrentPrice   float64 `json:"current_price"`
	AllTimeHigh    float64 `json:"all_time_high"`
	DropFromATHPct float64 `json:"drop_from_ath_pct"`

	HistoricalVolatility float64 `json:"historical_volatility"`
	ImpliedVolatility    float64 `json:"implied_volatility"`
	IVHVRatio            float64 `json:"iv_hv_ratio"`

	EarningsDate    *time.Time `json:"earnings_date,omitempty"`
	DaysToEarnings  *int       `json:"days_to_earnings,omitempty"`
	HasEarningsSoon bool       `json:"has_earnings_soon"`

	Sentiment           sentiment.Label `json:"sentiment"`
	SentimentConfidence float64         `json:"sentiment_confidence"`
	SentimentNotes      string          `json:"sentiment_notes"`
	HeadlineCount       int             `json:"headline_count"`

	// Trend annotations, informational only.
	RSI14             *float64 `json:"rsi_14,omitempty"`
	SMA200DistancePct *float64 `json:"sma_200_distance_pct,omitempty"`
	TrailingPE        float64  `json:"trailing_pe,omitempty"`
	ForwardPE         float64  `json:"forward_pe,omitempty"`

	Score float64 `json:"score"`
}

// Run statuses persisted in the screener database.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
)

// Run is the persisted summary of one pipeline invocation.
type Run struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	Criteria       Criteria   `json:"criteria"`
	UniverseSize   int        `json:"universe_size"`
	CandidateCount int        `json:"candidate_count"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}
