package universe

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/utils"
)

// Market selector values accepted by the screener.
const (
	MarketSP500     = "SP500"
	MarketNasdaq100 = "NASDAQ100"
	MarketDow30     = "DOW30"
	MarketBoth      = "Both"
)

// Resolver maps a market selector onto a de-duplicated ticker list.
type Resolver struct {
	log zerolog.Logger
}

// NewResolver creates a new universe resolver.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{
		log: log.With().Str("module", "universe").Logger(),
	}
}

// Resolve returns the tickers for the given market selector. "Both" yields
// the union of SP500 and NASDAQ100, first occurrence wins so order stays
// deterministic. Selectors are matched case-insensitively.
func (r *Resolver) Resolve(selector string) ([]string, error) {
	var lists [][]string

	switch {
	case strings.EqualFold(selector, MarketSP500):
		lists = [][]string{SP500Tickers}
	case strings.EqualFold(selector, MarketNasdaq100):
		lists = [][]string{Nasdaq100Tickers}
	case strings.EqualFold(selector, MarketDow30):
		lists = [][]string{Dow30Tickers}
	case strings.EqualFold(selector, MarketBoth):
		lists = [][]string{SP500Tickers, Nasdaq100Tickers}
	default:
		return nil, fmt.Errorf("unknown market selector %q", selector)
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, list := range lists {
		for _, raw := range list {
			t := utils.CleanTicker(raw)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	r.log.Debug().
		Str("selector", selector).
		Int("tickers", len(tickers)).
		Msg("Resolved screening universe")

	return tickers, nil
}
