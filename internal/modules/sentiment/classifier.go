package sentiment

import "context"

// Classifier turns a ticker's recent headlines into an Analysis.
//
// Implementations never fail the pipeline: classification errors degrade
// to a neutral or heuristic result instead of returning an error, so a
// flaky provider cannot abort a screening run.
type Classifier interface {
	Classify(ctx context.Context, ticker string, headlines []string) Analysis
}
