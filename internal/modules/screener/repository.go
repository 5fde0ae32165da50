package screener

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/utils"
)

// Repository persists screening runs and their results.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// resultColumns lists the screener_results columns in scan order.
// Used to avoid SELECT * which can break when schema changes.
const resultColumns = `ticker, company_name, sector, market_cap, current_price, ath_price,
drop_from_ath_pct, hist_volatility, impl_volatility, iv_hv_ratio,
sentiment, sentiment_confidence, sentiment_notes, headline_count, next_earnings_date, days_to_earnings,
rsi_14, sma_200_distance_pct, trailing_pe, forward_pe, composite_score`

// NewRepository creates a screener repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "screener").Logger(),
	}
}

// CreateRun inserts a new run in running state.
func (r *Repository) CreateRun(run Run) error {
	_, err := r.db.Exec(
		`INSERT INTO screener_runs
		 (id, status, market, min_drop_pct, min_market_cap, min_iv_hv_ratio,
		  sentiment_filter, require_earnings, universe_size, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.Criteria.Market,
		run.Criteria.MinDropFromATHPct, run.Criteria.MinMarketCapUSD, run.Criteria.MinIVHVRatio,
		joinSentiments(run.Criteria.Sentiments), boolToInt(run.Criteria.RequireUpcomingEarnings),
		run.UniverseSize, run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun marks a run complete or failed and stores its outcome.
func (r *Repository) FinishRun(id, status string, candidateCount int, runErr string) error {
	_, err := r.db.Exec(
		`UPDATE screener_runs
		 SET status = ?, candidate_count = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		status, candidateCount, nullIfEmpty(runErr),
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", id, err)
	}
	return nil
}

// SaveResults stores a run's result records in one transaction.
func (r *Repository) SaveResults(runID string, records []Record) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			`INSERT INTO screener_results
			 (run_id, ` + strings.ReplaceAll(resultColumns, "\n", " ") + `, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare result insert: %w", err)
		}
		defer stmt.Close()

		createdAt := time.Now().UTC().Format(time.RFC3339)
		for _, rec := range records {
			var earningsDate interface{}
			if rec.EarningsDate != nil {
				earningsDate = rec.EarningsDate.UTC().Format("2006-01-02")
			}

			_, err := stmt.Exec(
				runID,
				rec.Ticker, rec.CompanyName, rec.Sector, rec.MarketCap,
				rec.CurrentPrice, rec.AllTimeHigh, rec.DropFromATHPct,
				rec.HistoricalVolatility, rec.ImpliedVolatility, rec.IVHVRatio,
				string(rec.Sentiment), rec.SentimentConfidence, rec.SentimentNotes,
				rec.HeadlineCount, earningsDate, nullableInt(rec.DaysToEarnings),
				nullableFloat(rec.RSI14), nullableFloat(rec.SMA200DistancePct),
				rec.TrailingPE, rec.ForwardPE, rec.Score,
				createdAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert result for %s: %w", rec.Ticker, err)
			}
		}
		return nil
	})
}

// GetRun returns a run by ID, or nil when not found.
func (r *Repository) GetRun(id string) (*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, status, market, min_drop_pct, min_market_cap, min_iv_hv_ratio,
		        sentiment_filter, require_earnings, universe_size, candidate_count,
		        error, started_at, finished_at
		 FROM screener_runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r *Repository) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, status, market, min_drop_pct, min_market_cap, min_iv_hv_ratio,
		        sentiment_filter, require_earnings, universe_size, candidate_count,
		        error, started_at, finished_at
		 FROM screener_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetResults returns a run's records ordered by score, highest first.
func (r *Repository) GetResults(runID string) ([]Record, error) {
	rows, err := r.db.Query(
		"SELECT "+resultColumns+" FROM screener_results WHERE run_id = ? ORDER BY composite_score DESC, ticker ASC",
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRunsBefore removes runs older than the cutoff along with their
// results (cascaded). Returns the number of runs removed.
func (r *Repository) DeleteRunsBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		"DELETE FROM screener_runs WHERE started_at < ?",
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var sentiments string
	var requireEarnings int
	var errText sql.NullString
	var startedAt string
	var finishedAt sql.NullString

	err := rows.Scan(
		&run.ID, &run.Status, &run.Criteria.Market,
		&run.Criteria.MinDropFromATHPct, &run.Criteria.MinMarketCapUSD, &run.Criteria.MinIVHVRatio,
		&sentiments, &requireEarnings, &run.UniverseSize, &run.CandidateCount,
		&errText, &startedAt, &finishedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	for _, s := range utils.ParseCSV(sentiments) {
		run.Criteria.Sentiments = append(run.Criteria.Sentiments, sentiment.Label(s))
	}
	run.Criteria.RequireUpcomingEarnings = requireEarnings != 0
	run.Error = errText.String

	if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = ts
	}
	if finishedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, finishedAt.String); err == nil {
			run.FinishedAt = &ts
		}
	}

	return run, nil
}

func scanResult(rows *sql.Rows) (Record, error) {
	var rec Record
	var sentimentLabel string
	var earningsDate sql.NullString
	var daysToEarnings sql.NullInt64
	var rsi, smaDist sql.NullFloat64

	err := rows.Scan(
		&rec.Ticker, &rec.CompanyName, &rec.Sector, &rec.MarketCap,
		&rec.CurrentPrice, &rec.AllTimeHigh, &rec.DropFromATHPct,
		&rec.HistoricalVolatility, &rec.ImpliedVolatility, &rec.IVHVRatio,
		&sentimentLabel, &rec.SentimentConfidence, &rec.SentimentNotes,
		&rec.HeadlineCount, &earningsDate, &daysToEarnings, &rsi, &smaDist,
		&rec.TrailingPE, &rec.ForwardPE, &rec.Score,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to scan result: %w", err)
	}

	rec.Sentiment = sentiment.Label(sentimentLabel)
	if earningsDate.Valid {
		if ts, err := time.Parse("2006-01-02", earningsDate.String); err == nil {
			rec.EarningsDate = &ts
		}
	}
	if daysToEarnings.Valid {
		days := int(daysToEarnings.Int64)
		rec.DaysToEarnings = &days
		rec.HasEarningsSoon = days >= 0 && days <= EarningsWindowDays
	}
	if rsi.Valid {
		rec.RSI14 = &rsi.Float64
	}
	if smaDist.Valid {
		rec.SMA200DistancePct = &smaDist.Float64
	}

	return rec, nil
}

func joinSentiments(labels []sentiment.Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
