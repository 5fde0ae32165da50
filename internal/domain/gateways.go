// Package domain defines the external data contracts consumed by the
// screening pipeline. Raw provider responses are normalized into these
// typed structs at the gateway boundary so internal stages never see
// provider-specific shapes.
package domain

import (
	"context"
	"time"
)

// PricePoint is a single daily close in a time-ordered series.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// StaticInfo holds the static company metadata used by the fundamental
// filter and carried through to the result set for display.
type StaticInfo struct {
	MarketCap  float64 // USD; 0 when the provider has no figure
	LongName   string  // falls back to the ticker symbol
	Sector     string  // "Unknown" when the provider has no sector
	TrailingPE float64 // 0 when unavailable
	ForwardPE  float64 // 0 when unavailable
}

// MarketDataGateway supplies historical prices, static company metadata,
// and the next scheduled earnings date for a ticker.
//
// Implementations must honor ctx cancellation, return series in ascending
// date order, and map provider failures onto the domain error taxonomy
// (ErrUnavailable, ErrRateLimited, ErrMalformed).
type MarketDataGateway interface {
	// GetDailyCloses returns daily closes in [start, end], ascending by
	// date. An empty or missing series is ErrUnavailable.
	GetDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]PricePoint, error)

	// GetStaticInfo returns normalized company metadata.
	GetStaticInfo(ctx context.Context, ticker string) (StaticInfo, error)

	// GetNextEarningsDate returns the next scheduled earnings date, or
	// nil when none is known. Unknown is not an error.
	GetNextEarningsDate(ctx context.Context, ticker string) (*time.Time, error)
}

// NewsGateway supplies recent headlines for a ticker.
//
// Implementations return an empty slice (not an error) when there is
// simply no news. Quota exhaustion is ErrRateLimited; callers substitute
// deterministic placeholder headlines so the sentiment stage stays
// exercised in degraded mode.
type NewsGateway interface {
	GetHeadlines(ctx context.Context, ticker string, since time.Time, maxCount int) ([]string, error)
}
