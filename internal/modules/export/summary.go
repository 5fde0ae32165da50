package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shivvp96/LeapFinder/internal/modules/screener"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/utils"
)

// topListSize caps how many ranked candidates the summary lists.
const topListSize = 10

// WriteSummary renders a plain-text aggregate summary of a run: counts,
// averages, sentiment breakdown, and the top candidates by score.
func WriteSummary(w io.Writer, run screener.Run, records []screener.Record) error {
	var b strings.Builder

	b.WriteString("LEAP CANDIDATE SCREENING SUMMARY\n")
	b.WriteString("================================\n\n")

	fmt.Fprintf(&b, "Run:        %s\n", run.ID)
	fmt.Fprintf(&b, "Started:    %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Market:     %s\n", run.Criteria.Market)
	fmt.Fprintf(&b, "Universe:   %d tickers\n", run.UniverseSize)
	fmt.Fprintf(&b, "Candidates: %d\n\n", len(records))

	fmt.Fprintf(&b, "Criteria: drop >= %s, market cap >= %s, IV/HV >= %s\n\n",
		utils.FormatPercentage(run.Criteria.MinDropFromATHPct, 0),
		utils.FormatCurrency(run.Criteria.MinMarketCapUSD, 0),
		utils.FormatRatio(run.Criteria.MinIVHVRatio, 2))

	if len(records) == 0 {
		b.WriteString("No candidates matched the screening criteria.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	counts := map[sentiment.Label]int{}
	var sumDrop, sumRatio, sumScore float64
	for _, rec := range records {
		counts[rec.Sentiment]++
		sumDrop += rec.DropFromATHPct
		sumRatio += rec.IVHVRatio
		sumScore += rec.Score
	}
	n := float64(len(records))

	b.WriteString("Sentiment breakdown:\n")
	for _, label := range []sentiment.Label{sentiment.Bullish, sentiment.Neutral, sentiment.Bearish} {
		fmt.Fprintf(&b, "  %-8s %d\n", label, counts[label])
	}
	b.WriteString("\nAverages:\n")
	fmt.Fprintf(&b, "  Drop from ATH: %s\n", utils.FormatPercentage(sumDrop/n, 1))
	fmt.Fprintf(&b, "  IV/HV ratio:   %s\n", utils.FormatRatio(sumRatio/n, 2))
	fmt.Fprintf(&b, "  Score:         %s\n\n", utils.FormatRatio(sumScore/n, 3))

	b.WriteString("Top candidates:\n")
	for i, rec := range records {
		if i >= topListSize {
			break
		}
		fmt.Fprintf(&b, "  %2d. %-6s score %-7s drop %-7s IV/HV %-6s %s (%s)\n",
			i+1,
			rec.Ticker,
			utils.FormatRatio(rec.Score, 3),
			utils.FormatPercentage(rec.DropFromATHPct, 1),
			utils.FormatRatio(rec.IVHVRatio, 2),
			rec.Sentiment,
			utils.FormatCurrency(rec.MarketCap, 1))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
