// Package yahoo implements the market data gateway on top of the Yahoo
// Finance API via the piquette/finance-go client.
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/ratelimit"
)

// Client fetches prices, company metadata and earnings dates from Yahoo
// Finance. It satisfies domain.MarketDataGateway.
type Client struct {
	limiter ratelimit.Limiter
	cache   *PriceCache // optional, nil disables caching
	log     zerolog.Logger
}

// NewClient creates a Yahoo Finance client.
// cache is optional - if nil, caching is disabled.
func NewClient(limiter ratelimit.Limiter, cache *PriceCache, log zerolog.Logger) *Client {
	return &Client{
		limiter: limiter,
		cache:   cache,
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// GetDailyCloses returns daily closes for [start, end] in ascending date
// order. Serves from the price cache when fresh, otherwise fetches the
// full range and caches it.
func (c *Client) GetDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]domain.PricePoint, error) {
	if c.cache != nil {
		if points := c.cache.Get(ticker); points != nil {
			c.log.Debug().Str("ticker", ticker).Int("points", len(points)).Msg("Price cache hit")
			return filterRange(points, start, end), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Interval: datetime.OneDay,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	})

	var points []domain.PricePoint
	for iter.Next() {
		bar := iter.Bar()
		closePrice, _ := bar.Close.Float64()
		if closePrice <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: closePrice,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, c.mapError(ticker, "chart", err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no price history for %s: %w", ticker, domain.ErrUnavailable)
	}

	if c.cache != nil {
		if err := c.cache.Put(ticker, points); err != nil {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache price series")
		}
	}

	return filterRange(points, start, end), nil
}

// GetStaticInfo returns normalized company metadata for a ticker.
func (c *Client) GetStaticInfo(ctx context.Context, ticker string) (domain.StaticInfo, error) {
	eq, err := c.fetchEquity(ctx, ticker)
	if err != nil {
		return domain.StaticInfo{}, err
	}

	longName := eq.LongName
	if longName == "" {
		longName = ticker
	}

	// Yahoo's quote payload carries no sector field; normalized here so
	// downstream display code never special-cases the blank.
	return domain.StaticInfo{
		MarketCap:  float64(eq.MarketCap),
		LongName:   longName,
		Sector:     "Unknown",
		TrailingPE: eq.TrailingPE,
		ForwardPE:  eq.ForwardPE,
	}, nil
}

// GetNextEarningsDate returns the next scheduled earnings date, or nil
// when Yahoo has none on record.
func (c *Client) GetNextEarningsDate(ctx context.Context, ticker string) (*time.Time, error) {
	eq, err := c.fetchEquity(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if eq.EarningsTimestamp <= 0 {
		return nil, nil
	}

	ts := time.Unix(int64(eq.EarningsTimestamp), 0).UTC()
	return &ts, nil
}

func (c *Client) fetchEquity(ctx context.Context, ticker string) (*finance.Equity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	eq, err := equity.Get(ticker)
	if err != nil {
		return nil, c.mapError(ticker, "equity", err)
	}
	if eq == nil {
		return nil, fmt.Errorf("no quote for %s: %w", ticker, domain.ErrUnavailable)
	}

	return eq, nil
}

// mapError folds provider failures onto the domain error taxonomy.
func (c *Client) mapError(ticker, op string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return fmt.Errorf("yahoo %s for %s: %w", op, ticker, domain.ErrRateLimited)
	case strings.Contains(msg, "decode") || strings.Contains(msg, "unmarshal"):
		return fmt.Errorf("yahoo %s for %s: %s: %w", op, ticker, err, domain.ErrMalformed)
	default:
		return fmt.Errorf("yahoo %s for %s: %s: %w", op, ticker, err, domain.ErrUnavailable)
	}
}

// filterRange keeps points within [start, end], preserving order.
func filterRange(points []domain.PricePoint, start, end time.Time) []domain.PricePoint {
	var out []domain.PricePoint
	for _, p := range points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
