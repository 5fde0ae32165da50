// Package export serializes a run's result set into the delivery formats:
// a row-oriented CSV, a plain-text summary, and an optional S3 upload.
// Exports are pure serializations; no screening computation happens here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shivvp96/LeapFinder/internal/modules/screener"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
)

var csvHeader = []string{
	"ticker", "company_name", "sector", "market_cap",
	"current_price", "all_time_high", "drop_from_ath_pct",
	"historical_volatility", "implied_volatility", "iv_hv_ratio",
	"earnings_date", "has_earnings_soon",
	"sentiment", "sentiment_confidence", "sentiment_notes",
	"score",
}

// WriteCSV serializes records to w. Percentages and volatilities carry one
// decimal, ratios and confidences two, scores three.
func WriteCSV(w io.Writer, records []screener.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		earningsDate := ""
		if rec.EarningsDate != nil {
			earningsDate = rec.EarningsDate.Format("2006-01-02")
		}

		row := []string{
			rec.Ticker,
			rec.CompanyName,
			rec.Sector,
			strconv.FormatFloat(rec.MarketCap, 'f', 0, 64),
			strconv.FormatFloat(rec.CurrentPrice, 'f', 2, 64),
			strconv.FormatFloat(rec.AllTimeHigh, 'f', 2, 64),
			strconv.FormatFloat(rec.DropFromATHPct, 'f', 1, 64),
			strconv.FormatFloat(rec.HistoricalVolatility, 'f', 1, 64),
			strconv.FormatFloat(rec.ImpliedVolatility, 'f', 1, 64),
			strconv.FormatFloat(rec.IVHVRatio, 'f', 2, 64),
			earningsDate,
			strconv.FormatBool(rec.HasEarningsSoon),
			string(rec.Sentiment),
			strconv.FormatFloat(rec.SentimentConfidence, 'f', 2, 64),
			rec.SentimentNotes,
			strconv.FormatFloat(rec.Score, 'f', 3, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", rec.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseCSV reads a CSV produced by WriteCSV back into records. Used by
// downstream tooling and the round-trip tests; fields not present in the
// export (headline counts, trend annotations) stay zero.
func ParseCSV(r io.Reader) ([]screener.Record, error) {
	cr := csv.NewReader(r)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected CSV header: %d columns, want %d", len(rows[0]), len(csvHeader))
	}

	var records []screener.Record
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("bad CSV row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (screener.Record, error) {
	var rec screener.Record
	if len(row) != len(csvHeader) {
		return rec, fmt.Errorf("%d columns, want %d", len(row), len(csvHeader))
	}

	rec.Ticker = row[0]
	rec.CompanyName = row[1]
	rec.Sector = row[2]

	floats := map[int]*float64{
		3:  &rec.MarketCap,
		4:  &rec.CurrentPrice,
		5:  &rec.AllTimeHigh,
		6:  &rec.DropFromATHPct,
		7:  &rec.HistoricalVolatility,
		8:  &rec.ImpliedVolatility,
		9:  &rec.IVHVRatio,
		13: &rec.SentimentConfidence,
		15: &rec.Score,
	}
	for idx, dst := range floats {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", csvHeader[idx], err)
		}
		*dst = v
	}

	if row[10] != "" {
		ts, err := time.Parse("2006-01-02", row[10])
		if err != nil {
			return rec, fmt.Errorf("column earnings_date: %w", err)
		}
		rec.EarningsDate = &ts
	}

	hasEarnings, err := strconv.ParseBool(row[11])
	if err != nil {
		return rec, fmt.Errorf("column has_earnings_soon: %w", err)
	}
	rec.HasEarningsSoon = hasEarnings

	rec.Sentiment = sentiment.Label(row[12])
	rec.SentimentNotes = row[14]

	return rec, nil
}
