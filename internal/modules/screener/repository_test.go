package screener

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "screener.db"),
		Profile: database.ProfileStandard,
		Name:    "screener",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db.Conn(), zerolog.Nop())
}

func testCriteria() Criteria {
	return Criteria{
		Market:            "SP500",
		MinDropFromATHPct: 40,
		MinMarketCapUSD:   50e9,
		MinIVHVRatio:      1.25,
		Sentiments:        []sentiment.Label{sentiment.Bullish, sentiment.Neutral},
	}
}

func testRecord(ticker string, score float64) Record {
	earnings := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	days := 16
	rsi := 44.2

	return Record{
		Ticker:               ticker,
		CompanyName:          ticker + " Inc.",
		Sector:               "Unknown",
		MarketCap:            120e9,
		CurrentPrice:         50,
		AllTimeHigh:          100,
		DropFromATHPct:       50,
		HistoricalVolatility: 28.4,
		ImpliedVolatility:    45.1,
		IVHVRatio:            1.588,
		EarningsDate:         &earnings,
		DaysToEarnings:       &days,
		HasEarningsSoon:      true,
		Sentiment:            sentiment.Bullish,
		SentimentConfidence:  0.7,
		SentimentNotes:       "solid quarter",
		HeadlineCount:        5,
		RSI14:                &rsi,
		TrailingPE:           21.3,
		ForwardPE:            18.9,
		Score:                score,
	}
}

func TestRepository_RunLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	run := Run{
		ID:           "run-1",
		Status:       RunStatusRunning,
		Criteria:     testCriteria(),
		UniverseSize: 100,
		StartedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusRunning, got.Status)
	assert.Equal(t, "SP500", got.Criteria.Market)
	assert.Equal(t, []sentiment.Label{sentiment.Bullish, sentiment.Neutral}, got.Criteria.Sentiments)
	assert.Nil(t, got.FinishedAt)

	require.NoError(t, repo.FinishRun("run-1", RunStatusComplete, 7, ""))

	got, err = repo.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusComplete, got.Status)
	assert.Equal(t, 7, got.CandidateCount)
	assert.Empty(t, got.Error)
	assert.NotNil(t, got.FinishedAt)
}

func TestRepository_FailedRunStoresError(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateRun(Run{
		ID: "run-2", Status: RunStatusRunning, Criteria: testCriteria(), StartedAt: time.Now(),
	}))
	require.NoError(t, repo.FinishRun("run-2", RunStatusFailed, 0, "universe resolution failed"))

	got, err := repo.GetRun("run-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "universe resolution failed", got.Error)
}

func TestRepository_GetRun_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetRun("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_SaveAndGetResults(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateRun(Run{
		ID: "run-3", Status: RunStatusRunning, Criteria: testCriteria(), StartedAt: time.Now(),
	}))

	records := []Record{
		testRecord("AAPL", 1.5),
		testRecord("MSFT", 2.1),
	}
	require.NoError(t, repo.SaveResults("run-3", records))

	got, err := repo.GetResults("run-3")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by score, highest first.
	assert.Equal(t, "MSFT", got[0].Ticker)
	assert.Equal(t, "AAPL", got[1].Ticker)

	first := got[1]
	assert.Equal(t, "AAPL Inc.", first.CompanyName)
	assert.Equal(t, 50.0, first.DropFromATHPct)
	assert.Equal(t, sentiment.Bullish, first.Sentiment)
	assert.Equal(t, 5, first.HeadlineCount)
	assert.True(t, first.HasEarningsSoon)
	require.NotNil(t, first.EarningsDate)
	assert.Equal(t, "2026-09-15", first.EarningsDate.Format("2006-01-02"))
	require.NotNil(t, first.RSI14)
	assert.InDelta(t, 44.2, *first.RSI14, 1e-9)
	assert.Nil(t, first.SMA200DistancePct)
}

func TestRepository_ListRuns_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.CreateRun(Run{
			ID:        id,
			Status:    RunStatusComplete,
			Criteria:  testCriteria(),
			StartedAt: time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
		}))
	}

	runs, err := repo.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}

func TestRepository_DeleteRunsBefore_Cascades(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateRun(Run{
		ID: "stale", Status: RunStatusComplete, Criteria: testCriteria(),
		StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.SaveResults("stale", []Record{testRecord("AAPL", 1)}))

	deleted, err := repo.DeleteRunsBefore(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	results, err := repo.GetResults("stale")
	require.NoError(t, err)
	assert.Empty(t, results)
}
