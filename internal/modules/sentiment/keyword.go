package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Signal word lists for the keyword heuristic. Matching is presence-based:
// each word counts at most once regardless of how often it appears.
var (
	positiveWords = []string{
		"up", "rise", "gain", "growth", "profit",
		"beat", "strong", "bullish", "upgrade", "buy",
	}
	negativeWords = []string{
		"down", "fall", "loss", "decline", "drop",
		"miss", "weak", "bearish", "downgrade", "sell",
	}
)

// KeywordClassifier scores headlines by counting positive and negative
// signal words. It needs no credentials and serves as the fallback when
// the LLM classifier is unavailable.
type KeywordClassifier struct {
	log zerolog.Logger
}

// NewKeywordClassifier creates a keyword-based classifier.
func NewKeywordClassifier(log zerolog.Logger) *KeywordClassifier {
	return &KeywordClassifier{
		log: log.With().Str("classifier", "keyword").Logger(),
	}
}

// Classify labels the headlines by signal word balance. A label is only
// directional when one side leads by more than one signal; confidence
// grows with the lead and caps at 0.8, reflecting the crudeness of the
// heuristic. Ties and near-ties are Neutral at 0.6.
func (k *KeywordClassifier) Classify(_ context.Context, ticker string, headlines []string) Analysis {
	if len(headlines) == 0 {
		return NoNewsAnalysis()
	}

	text := strings.ToLower(strings.Join(headlines, " "))

	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(text, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(text, word) {
			negative++
		}
	}

	var label Label
	var confidence float64
	switch {
	case positive > negative+1:
		label = Bullish
		confidence = min(0.8, 0.5+float64(positive-negative)*0.1)
	case negative > positive+1:
		label = Bearish
		confidence = min(0.8, 0.5+float64(negative-positive)*0.1)
	default:
		label = Neutral
		confidence = 0.6
	}

	k.log.Debug().
		Str("ticker", ticker).
		Int("positive", positive).
		Int("negative", negative).
		Str("label", string(label)).
		Msg("Keyword sentiment classified")

	return Analysis{
		Label:      label,
		Confidence: confidence,
		Notes:      fmt.Sprintf("Keyword-based analysis: %d positive, %d negative signals", positive, negative),
	}
}
