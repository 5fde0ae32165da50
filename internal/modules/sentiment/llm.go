package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

const (
	llmSystemPrompt = "You are a financial sentiment analysis expert. Analyze news headlines and provide structured sentiment analysis."

	llmMaxTokens = 200
	llmTimeout   = 30 * time.Second
)

// LLMClassifier asks Claude to classify headlines and falls back to the
// keyword heuristic when the API call or response parsing fails.
type LLMClassifier struct {
	client   anthropic.Client
	model    string
	fallback *KeywordClassifier
	log      zerolog.Logger
}

// NewLLMClassifier creates a Claude-backed classifier.
func NewLLMClassifier(apiKey, model string, fallback *KeywordClassifier, log zerolog.Logger) *LLMClassifier {
	return &LLMClassifier{
		client:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		fallback: fallback,
		log:      log.With().Str("classifier", "llm").Logger(),
	}
}

// llmResponse is the JSON shape the prompt asks the model to produce.
type llmResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

// Classify sends the headlines to Claude and normalizes the structured
// response. Any failure degrades to the keyword fallback so the caller
// always gets a usable Analysis.
func (c *LLMClassifier) Classify(ctx context.Context, ticker string, headlines []string) Analysis {
	if len(headlines) == 0 {
		return NoNewsAnalysis()
	}

	analysis, err := c.classify(ctx, ticker, headlines)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("LLM sentiment classification failed, using keyword fallback")
		return c.fallback.Classify(ctx, ticker, headlines)
	}

	return analysis
}

func (c *LLMClassifier) classify(ctx context.Context, ticker string, headlines []string) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: llmMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: llmSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(ticker, headlines))),
		},
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return Analysis{}, fmt.Errorf("empty response from model")
	}

	parsed, err := parseResponse(text.String())
	if err != nil {
		return Analysis{}, err
	}

	notes := strings.TrimSpace(parsed.Notes)
	if notes == "" {
		notes = "Analysis completed"
	}

	return Analysis{
		Label:      NormalizeLabel(parsed.Sentiment),
		Confidence: clampConfidence(parsed.Confidence),
		Notes:      notes,
	}, nil
}

// buildPrompt renders the classification request for a ticker's headlines.
func buildPrompt(ticker string, headlines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the following recent headlines about %s, analyze the overall sentiment and provide:\n", ticker)
	b.WriteString("1. Overall sentiment: BULLISH, NEUTRAL, or BEARISH\n")
	b.WriteString("2. Confidence score between 0 and 1\n")
	b.WriteString("3. Brief 1-2 sentence explanation\n\nHeadlines:\n")
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	b.WriteString("\nRespond with JSON in this exact format:\n")
	b.WriteString(`{"sentiment": "BULLISH/NEUTRAL/BEARISH", "confidence": 0.0-1.0, "notes": "brief explanation"}`)
	return b.String()
}

// parseResponse extracts the JSON object from the model output, tolerating
// surrounding prose or markdown fences.
func parseResponse(raw string) (llmResponse, error) {
	var parsed llmResponse

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return parsed, fmt.Errorf("no JSON object in model response")
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return parsed, fmt.Errorf("malformed model response: %w", err)
	}

	return parsed, nil
}
