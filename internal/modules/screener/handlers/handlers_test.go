package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/modules/universe"
	"github.com/shivvp96/LeapFinder/internal/modules/volatility"
)

type stubMarket struct{}

func (stubMarket) GetDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]domain.PricePoint, error) {
	return nil, domain.ErrUnavailable
}

func (stubMarket) GetStaticInfo(ctx context.Context, ticker string) (domain.StaticInfo, error) {
	return domain.StaticInfo{}, domain.ErrUnavailable
}

func (stubMarket) GetNextEarningsDate(ctx context.Context, ticker string) (*time.Time, error) {
	return nil, nil
}

type stubNews struct{}

func (stubNews) GetHeadlines(ctx context.Context, ticker string, since time.Time, maxCount int) ([]string, error) {
	return nil, nil
}

func newTestEnv(t *testing.T) (*screener.Repository, http.Handler) {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "screener.db"),
		Profile: database.ProfileStandard,
		Name:    "screener",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	repo := screener.NewRepository(db.Conn(), log)

	pipeline := screener.NewPipeline(
		stubMarket{}, stubNews{},
		sentiment.NewKeywordClassifier(log),
		volatility.NewEstimator(volatility.DefaultReturnWindow),
		volatility.NewSyntheticStrategy(1),
		2, log,
	)

	defaults := screener.Criteria{
		Market:            universe.MarketSP500,
		MinDropFromATHPct: 40,
		MinMarketCapUSD:   50e9,
		MinIVHVRatio:      1.25,
		Sentiments:        []sentiment.Label{sentiment.Bullish, sentiment.Neutral},
	}

	svc := screener.NewService(pipeline, universe.NewResolver(log), repo, nil, defaults, log)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		NewHandler(svc, log).RegisterRoutes(api)
	})

	return repo, r
}

func seedRun(t *testing.T, repo *screener.Repository, id string) {
	t.Helper()

	run := screener.Run{
		ID:     id,
		Status: screener.RunStatusRunning,
		Criteria: screener.Criteria{
			Market:     universe.MarketSP500,
			Sentiments: []sentiment.Label{sentiment.Neutral},
		},
		UniverseSize: 100,
		StartedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRun(run))

	records := []screener.Record{
		{
			Ticker:               "AAPL",
			CompanyName:          "Apple Inc.",
			Sector:               "Unknown",
			MarketCap:            2.8e12,
			CurrentPrice:         150,
			AllTimeHigh:          300,
			DropFromATHPct:       50,
			HistoricalVolatility: 30,
			ImpliedVolatility:    45,
			IVHVRatio:            1.5,
			Sentiment:            sentiment.Neutral,
			SentimentConfidence:  0.6,
			SentimentNotes:       "steady",
			Score:                1.848,
		},
	}
	require.NoError(t, repo.SaveResults(id, records))
	require.NoError(t, repo.FinishRun(id, screener.RunStatusComplete, len(records), ""))
}

func TestHandleDefaults(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/defaults", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"market":"SP500"`)
	assert.Contains(t, rec.Body.String(), `"min_drop_from_ath_pct":40`)
}

func TestHandleStatus_Idle(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"running": false}`, rec.Body.String())
}

func TestHandleStartRun_InvalidBody(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/screener/runs", strings.NewReader("{not json"))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStartRun_InvalidSentiment(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/screener/runs",
		strings.NewReader(`{"sentiments": ["EUPHORIC"]}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid sentiment")
}

func TestHandleStartRun_UnknownMarket(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/screener/runs",
		strings.NewReader(`{"market": "FTSE100"}`))
	router.ServeHTTP(rec, req)

	// The run is accepted; the unknown market is recorded as a failed run.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_id")
}

func TestHandleStartRun_Accepted(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/screener/runs",
		strings.NewReader(`{"min_drop_from_ath_pct": 55}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"running"`)
}

func TestHandleListRuns(t *testing.T) {
	repo, router := newTestEnv(t)
	seedRun(t, repo, "run-list-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-list-1")
}

func TestHandleListRuns_EmptyIsArray(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandleListRuns_BadLimit(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetRun(t *testing.T) {
	repo, router := newTestEnv(t)
	seedRun(t, repo, "run-get-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs/run-get-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"complete"`)
	assert.Contains(t, rec.Body.String(), `"candidate_count":1`)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetResults(t *testing.T) {
	repo, router := newTestEnv(t)
	seedRun(t, repo, "run-results-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs/run-results-1/results", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ticker":"AAPL"`)
	assert.Contains(t, rec.Body.String(), `"score":1.848`)
}

func TestHandleGetResults_NotFound(t *testing.T) {
	_, router := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs/missing/results", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportCSV(t *testing.T) {
	repo, router := newTestEnv(t)
	seedRun(t, repo, "run-csv-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/runs/run-csv-1/export", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "run-csv-1.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ticker,company_name"))
	assert.True(t, strings.HasPrefix(lines[1], "AAPL,"))
}
