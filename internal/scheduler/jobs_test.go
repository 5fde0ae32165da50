package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivvp96/LeapFinder/internal/clients/yahoo"
	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/domain"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
)

func newMaintenanceFixture(t *testing.T) (*database.DB, *database.DB, *screener.Repository, *yahoo.PriceCache) {
	t.Helper()

	dir := t.TempDir()
	log := zerolog.Nop()

	screenerDB, err := database.New(database.Config{
		Path:    filepath.Join(dir, "screener.db"),
		Profile: database.ProfileStandard,
		Name:    "screener",
	})
	require.NoError(t, err)
	require.NoError(t, screenerDB.Migrate())
	t.Cleanup(func() { _ = screenerDB.Close() })

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(dir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	require.NoError(t, cacheDB.Migrate())
	t.Cleanup(func() { _ = cacheDB.Close() })

	repo := screener.NewRepository(screenerDB.Conn(), log)
	cache := yahoo.NewPriceCache(cacheDB, time.Hour, log)

	return screenerDB, cacheDB, repo, cache
}

func TestMaintenanceJob_PrunesOldRunsAndCache(t *testing.T) {
	screenerDB, cacheDB, repo, cache := newMaintenanceFixture(t)
	log := zerolog.Nop()

	// One run well past retention, one recent.
	old := screener.Run{
		ID:        "old-run",
		Status:    screener.RunStatusComplete,
		StartedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	}
	recent := screener.Run{
		ID:        "recent-run",
		Status:    screener.RunStatusComplete,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRun(old))
	require.NoError(t, repo.CreateRun(recent))

	// One cache entry aged past the TTL.
	points := []domain.PricePoint{{Date: time.Now().UTC().Truncate(time.Second), Close: 100}}
	require.NoError(t, cache.Put("AAPL", points))
	_, err := cacheDB.Conn().Exec(
		`UPDATE price_series SET fetched_at = ? WHERE ticker = ?`,
		time.Now().UTC().Add(-2*time.Hour).Format(time.RFC3339), "AAPL",
	)
	require.NoError(t, err)

	job := NewMaintenanceJob(cache, repo, []*database.DB{screenerDB, cacheDB}, 90*24*time.Hour, log)
	require.NoError(t, job.Run())

	gone, err := repo.GetRun("old-run")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.GetRun("recent-run")
	require.NoError(t, err)
	assert.NotNil(t, kept)

	assert.Nil(t, cache.Get("AAPL"))
}

func TestMaintenanceJob_NilCache(t *testing.T) {
	screenerDB, _, repo, _ := newMaintenanceFixture(t)

	job := NewMaintenanceJob(nil, repo, []*database.DB{screenerDB}, time.Hour, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestJobNames(t *testing.T) {
	assert.Equal(t, "maintenance", (&MaintenanceJob{}).Name())
	assert.Equal(t, "screening", (&ScreeningJob{}).Name())
}
