// Package newsapi fetches recent news headlines from newsapi.org.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/ratelimit"
)

// Client for newsapi.org. Satisfies domain.NewsGateway.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter ratelimit.Limiter
	log     zerolog.Logger
}

// NewClient creates a newsapi.org client.
func NewClient(apiKey string, limiter ratelimit.Limiter, log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://newsapi.org/v2/everything",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		log:     log.With().Str("client", "newsapi").Logger(),
	}
}

// apiResponse is the subset of the newsapi.org payload we consume.
type apiResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

// GetHeadlines returns up to maxCount headlines published since the given
// time, sorted by relevancy. Each headline combines the article title and
// description. Trivially short entries are dropped.
//
// A missing API key is ErrUnavailable and quota exhaustion is
// ErrRateLimited; callers are expected to substitute placeholder
// headlines in both cases. The limiter is waited on before the key
// check so callers falling back to placeholders stay paced too.
func (c *Client) GetHeadlines(ctx context.Context, ticker string, since time.Time, maxCount int) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("no NewsAPI key configured: %w", domain.ErrUnavailable)
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q OR %q OR %q", ticker, ticker+" stock", ticker+" shares"))
	params.Set("from", since.Format("2006-01-02"))
	params.Set("to", time.Now().Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", "20")
	params.Set("apiKey", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request for %s: %w", ticker, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request for %s failed: %s: %w", ticker, err, domain.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("newsapi quota exhausted for %s: %w", ticker, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("newsapi returned %d for %s: %w", resp.StatusCode, ticker, domain.ErrUnavailable)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response for %s: %w", ticker, domain.ErrMalformed)
	}

	var headlines []string
	for _, article := range parsed.Articles {
		headline := article.Title
		if article.Description != "" {
			headline = article.Title + ". " + article.Description
		}
		if len(headline) > 10 {
			headlines = append(headlines, headline)
		}
		if len(headlines) >= maxCount {
			break
		}
	}

	c.log.Debug().
		Str("ticker", ticker).
		Int("headlines", len(headlines)).
		Msg("Fetched headlines")

	return headlines, nil
}
