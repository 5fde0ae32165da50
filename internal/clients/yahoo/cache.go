package yahoo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/domain"
)

// cachedPoint stores dates as unix seconds so the payload round-trips
// identically regardless of time zone handling in the codec.
type cachedPoint struct {
	Unix  int64   `msgpack:"t"`
	Close float64 `msgpack:"c"`
}

// cachedSeries is the msgpack payload stored per ticker.
type cachedSeries struct {
	Points []cachedPoint `msgpack:"points"`
}

// PriceCache persists fetched daily close series in the cache database so
// repeated runs within the TTL skip the provider entirely.
type PriceCache struct {
	db  *database.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewPriceCache creates a price series cache with the given freshness TTL.
func NewPriceCache(db *database.DB, ttl time.Duration, log zerolog.Logger) *PriceCache {
	return &PriceCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("cache", "prices").Logger(),
	}
}

// Get returns the cached series for a ticker, or nil on a miss or when the
// entry is older than the TTL. Cache failures are logged and treated as
// misses; the cache must never fail a fetch.
func (c *PriceCache) Get(ticker string) []domain.PricePoint {
	var payload []byte
	var fetchedAt string

	err := c.db.QueryRow(
		"SELECT payload, fetched_at FROM price_series WHERE ticker = ?",
		ticker,
	).Scan(&payload, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("Cache read failed")
		}
		return nil
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || time.Since(ts) > c.ttl {
		return nil
	}

	var cached cachedSeries
	if err := msgpack.Unmarshal(payload, &cached); err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Cache payload corrupt, ignoring")
		return nil
	}

	points := make([]domain.PricePoint, len(cached.Points))
	for i, p := range cached.Points {
		points[i] = domain.PricePoint{
			Date:  time.Unix(p.Unix, 0).UTC(),
			Close: p.Close,
		}
	}
	return points
}

// Put stores a fetched series for a ticker, replacing any previous entry.
func (c *PriceCache) Put(ticker string, points []domain.PricePoint) error {
	encoded := make([]cachedPoint, len(points))
	for i, p := range points {
		encoded[i] = cachedPoint{Unix: p.Date.Unix(), Close: p.Close}
	}

	payload, err := msgpack.Marshal(cachedSeries{Points: encoded})
	if err != nil {
		return fmt.Errorf("failed to encode price series for %s: %w", ticker, err)
	}

	_, err = c.db.Exec(
		`INSERT INTO price_series (ticker, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(ticker) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		ticker, payload, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store price series for %s: %w", ticker, err)
	}

	return nil
}

// Purge removes entries older than the TTL. Called by the maintenance job.
func (c *PriceCache) Purge() (int64, error) {
	cutoff := time.Now().UTC().Add(-c.ttl).Format(time.RFC3339)
	res, err := c.db.Exec("DELETE FROM price_series WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge price cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
