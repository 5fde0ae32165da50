// Package scoring ranks screened candidates with a composite score.
package scoring

import (
	"math"

	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/utils"
)

// Sentiment multipliers favor bullish names and penalize bearish ones.
var sentimentMultipliers = map[sentiment.Label]float64{
	sentiment.Bullish: 1.2,
	sentiment.Neutral: 1.0,
	sentiment.Bearish: 0.8,
}

// Input holds the record fields the composite score depends on.
type Input struct {
	IVHVRatio           float64
	Sentiment           sentiment.Label
	SentimentConfidence float64 // [0, 1]
	DropFromATHPct      float64
	MarketCapUSD        float64
}

// Score computes the composite ranking score:
//
//	iv_hv_ratio
//	  x sentiment multiplier (1.2 bullish, 1.0 neutral, 0.8 bearish)
//	  x confidence multiplier (0.5 + 0.5 x confidence)
//	  x drop bonus (1 + drop_pct / 100)
//	  x market cap adjustment (1 + mcap / $1T, capped at 1.1)
//
// rounded to three decimals. A deeper drop from the all-time high raises
// the score since it means more potential upside for a long-dated call.
// Non-finite inputs or results yield 0.0 so a single bad record cannot
// poison the ranking.
func Score(in Input) float64 {
	mult, ok := sentimentMultipliers[in.Sentiment]
	if !ok {
		mult = 1.0
	}

	confidenceMult := 0.5 + in.SentimentConfidence*0.5
	dropBonus := 1 + in.DropFromATHPct/100
	marketCapAdj := math.Min(1.1, 1+in.MarketCapUSD/1e12)

	score := in.IVHVRatio * mult * confidenceMult * dropBonus * marketCapAdj
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0.0
	}

	return utils.Round3(score)
}
