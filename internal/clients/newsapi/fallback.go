package newsapi

import "fmt"

// FallbackHeadlines returns deterministic placeholder headlines for a
// ticker. The pipeline substitutes these when the news provider is down
// or rate limited so the sentiment stage still runs; the generic wording
// deliberately carries no directional signal.
func FallbackHeadlines(ticker string) []string {
	return []string{
		fmt.Sprintf("%s reports quarterly earnings results", ticker),
		fmt.Sprintf("Analysts update price target for %s", ticker),
		fmt.Sprintf("%s announces strategic partnership", ticker),
		fmt.Sprintf("Market volatility affects %s trading", ticker),
		fmt.Sprintf("Institutional investors adjust %s positions", ticker),
	}
}
