package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/ratelimit"
)

func newTestClient(serverURL string) *Client {
	c := NewClient("test-key", ratelimit.Nop{}, zerolog.Nop())
	c.baseURL = serverURL
	return c
}

func TestGetHeadlines_CombinesTitleAndDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "relevancy", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		fmt.Fprint(w, `{
			"status": "ok",
			"articles": [
				{"title": "AAPL beats estimates", "description": "Strong iPhone sales"},
				{"title": "Apple expands services", "description": ""},
				{"title": "short", "description": ""}
			]
		}`)
	}))
	defer server.Close()

	headlines, err := newTestClient(server.URL).GetHeadlines(
		context.Background(), "AAPL", time.Now().AddDate(0, 0, -14), 10)
	require.NoError(t, err)

	require.Len(t, headlines, 2)
	assert.Equal(t, "AAPL beats estimates. Strong iPhone sales", headlines[0])
	assert.Equal(t, "Apple expands services", headlines[1])
}

func TestGetHeadlines_RespectsMaxCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok", "articles": [
			{"title": "headline number one", "description": ""},
			{"title": "headline number two", "description": ""},
			{"title": "headline number three", "description": ""}
		]}`)
	}))
	defer server.Close()

	headlines, err := newTestClient(server.URL).GetHeadlines(
		context.Background(), "MSFT", time.Now(), 2)
	require.NoError(t, err)
	assert.Len(t, headlines, 2)
}

func TestGetHeadlines_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHeadlines(context.Background(), "AAPL", time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestGetHeadlines_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHeadlines(context.Background(), "AAPL", time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetHeadlines_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ok", "articles": [`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetHeadlines(context.Background(), "AAPL", time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrMalformed)
}

func TestGetHeadlines_NoAPIKey(t *testing.T) {
	c := NewClient("", ratelimit.Nop{}, zerolog.Nop())

	_, err := c.GetHeadlines(context.Background(), "AAPL", time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// countingLimiter records how often it is waited on.
type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Wait(ctx context.Context) error {
	c.waits++
	return ctx.Err()
}

func TestGetHeadlines_NoAPIKeyStillPaced(t *testing.T) {
	limiter := &countingLimiter{}
	c := NewClient("", limiter, zerolog.Nop())

	// Keyless degraded mode must still go through the limiter, otherwise
	// downstream classification fans out unpaced.
	_, err := c.GetHeadlines(context.Background(), "AAPL", time.Now(), 10)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, 1, limiter.waits)
}

func TestFallbackHeadlines(t *testing.T) {
	headlines := FallbackHeadlines("NVDA")

	require.Len(t, headlines, 5)
	for _, h := range headlines {
		assert.Contains(t, h, "NVDA")
	}

	// Deterministic for the same ticker.
	assert.Equal(t, headlines, FallbackHeadlines("NVDA"))
}
