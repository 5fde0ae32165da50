package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/clients/yahoo"
	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
)

// screeningJobTimeout bounds a scheduled screening run.
const screeningJobTimeout = 45 * time.Minute

// ScreeningJob runs a full screening pass with the configured defaults.
type ScreeningJob struct {
	service *screener.Service
	log     zerolog.Logger
}

// NewScreeningJob creates a scheduled screening job.
func NewScreeningJob(service *screener.Service, log zerolog.Logger) *ScreeningJob {
	return &ScreeningJob{
		service: service,
		log:     log.With().Str("job", "screening").Logger(),
	}
}

// Name returns the job name.
func (j *ScreeningJob) Name() string { return "screening" }

// Run executes a screening run synchronously. A run already in flight
// (for example one started via the API) makes this a no-op.
func (j *ScreeningJob) Run() error {
	if j.service.IsRunning() {
		j.log.Info().Msg("Screening already in progress, skipping scheduled run")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), screeningJobTimeout)
	defer cancel()

	runID, err := j.service.RunOnce(ctx, j.service.Defaults())
	if err != nil {
		return err
	}

	j.log.Info().Str("run_id", runID).Msg("Scheduled screening run completed")
	return nil
}

// MaintenanceJob expires stale price cache entries, prunes old runs,
// vacuums the databases, and truncates their WAL files.
type MaintenanceJob struct {
	cache     *yahoo.PriceCache
	repo      *screener.Repository
	dbs       []*database.DB
	retention time.Duration
	log       zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job. cache may be nil when no
// price cache is configured. Runs older than retention are deleted;
// their results go with them via the schema's cascade.
func NewMaintenanceJob(cache *yahoo.PriceCache, repo *screener.Repository, dbs []*database.DB, retention time.Duration, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		cache:     cache,
		repo:      repo,
		dbs:       dbs,
		retention: retention,
		log:       log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name.
func (j *MaintenanceJob) Name() string { return "maintenance" }

// Run purges expired cache rows and deletes runs past the retention window.
func (j *MaintenanceJob) Run() error {
	if j.cache != nil {
		purged, err := j.cache.Purge()
		if err != nil {
			return err
		}
		if purged > 0 {
			j.log.Info().Int64("purged", purged).Msg("Expired price series removed")
		}
	}

	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteRunsBefore(cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Old screening runs pruned")
	}

	// Vacuum before checkpointing so the rewritten pages land in the WAL
	// that gets truncated. Both are best-effort.
	for _, db := range j.dbs {
		if err := db.Vacuum(); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("Vacuum failed")
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}
	}

	return nil
}
