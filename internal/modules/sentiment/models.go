// Package sentiment classifies recent news headlines for a ticker into a
// market sentiment label with a confidence figure.
package sentiment

import "strings"

// Label is a market sentiment classification.
type Label string

const (
	Bullish Label = "BULLISH"
	Neutral Label = "NEUTRAL"
	Bearish Label = "BEARISH"
)

// Valid reports whether l is one of the three known labels.
func (l Label) Valid() bool {
	switch l {
	case Bullish, Neutral, Bearish:
		return true
	}
	return false
}

// NormalizeLabel maps arbitrary input onto a valid label.
// Unknown values collapse to Neutral.
func NormalizeLabel(s string) Label {
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return Neutral
	}
	return l
}

// Analysis is the outcome of classifying a ticker's headlines.
type Analysis struct {
	Label      Label   `json:"sentiment"`
	Confidence float64 `json:"confidence"` // always in [0, 1]
	Notes      string  `json:"notes"`
}

// NoNewsAnalysis is returned when a ticker has no headlines to classify.
func NoNewsAnalysis() Analysis {
	return Analysis{
		Label:      Neutral,
		Confidence: 0.5,
		Notes:      "no data",
	}
}

// clampConfidence pins a confidence value into [0, 1].
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
