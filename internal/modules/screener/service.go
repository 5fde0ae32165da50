package screener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/modules/universe"
	"github.com/shivvp96/LeapFinder/internal/utils"
)

// runTimeout bounds a whole screening run.
const runTimeout = 30 * time.Minute

// Exporter delivers a completed run's artifacts (CSV, summary, uploads).
// Export failures are logged, never fatal: the results are already
// persisted by the time exports happen.
type Exporter interface {
	Export(ctx context.Context, run Run, records []Record) error
}

// Service owns the screening run lifecycle: one run at a time, persisted
// run history, and export delivery on completion.
type Service struct {
	pipeline *Pipeline
	resolver *universe.Resolver
	repo     *Repository
	exporter Exporter // optional
	defaults Criteria
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewService creates a screener service. exporter may be nil.
func NewService(
	pipeline *Pipeline,
	resolver *universe.Resolver,
	repo *Repository,
	exporter Exporter,
	defaults Criteria,
	log zerolog.Logger,
) *Service {
	return &Service{
		pipeline: pipeline,
		resolver: resolver,
		repo:     repo,
		exporter: exporter,
		defaults: defaults,
		log:      log.With().Str("service", "screener").Logger(),
	}
}

// Defaults returns the configured default criteria.
func (s *Service) Defaults() Criteria {
	return s.defaults
}

// StartRun launches a screening run in the background and returns its ID.
// Only one run may be active at a time; a second request while one is in
// flight returns an error rather than queueing.
func (s *Service) StartRun(criteria Criteria) (string, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return "", fmt.Errorf("a screening run is already in progress")
	}
	s.running = true
	s.mu.Unlock()

	runID := uuid.New().String()

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := s.execute(ctx, runID, criteria); err != nil {
			s.log.Error().Err(err).Str("run_id", runID).Msg("Screening run failed")
		}
	}()

	return runID, nil
}

// RunOnce executes a screening run synchronously. Used by the scheduler.
func (s *Service) RunOnce(ctx context.Context, criteria Criteria) (string, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return "", fmt.Errorf("a screening run is already in progress")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runID := uuid.New().String()
	return runID, s.execute(ctx, runID, criteria)
}

// IsRunning reports whether a run is currently in flight.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// execute resolves the universe, records the run, drives the pipeline,
// and persists plus exports the outcome.
func (s *Service) execute(ctx context.Context, runID string, criteria Criteria) error {
	criteria = criteria.Clamped()

	tickers, err := s.resolver.Resolve(criteria.Market)
	if err != nil {
		// Cannot resolve the universe at all: record the aborted run so
		// the failure is visible in history.
		run := Run{ID: runID, Status: RunStatusFailed, Criteria: criteria, StartedAt: time.Now().UTC()}
		if createErr := s.repo.CreateRun(run); createErr == nil {
			_ = s.repo.FinishRun(runID, RunStatusFailed, 0, err.Error())
		}
		return fmt.Errorf("failed to resolve screening universe: %w", err)
	}

	run := Run{
		ID:           runID,
		Status:       RunStatusRunning,
		Criteria:     criteria,
		UniverseSize: len(tickers),
		StartedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateRun(run); err != nil {
		return err
	}

	s.log.Info().
		Str("run_id", runID).
		Str("market", criteria.Market).
		Int("universe", len(tickers)).
		Msg("Screening run started")

	timer := utils.NewTimer("screening_run", s.log)
	records, err := s.pipeline.Run(ctx, tickers, criteria)
	if err != nil {
		_ = s.repo.FinishRun(runID, RunStatusFailed, 0, err.Error())
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if err := s.repo.SaveResults(runID, records); err != nil {
		_ = s.repo.FinishRun(runID, RunStatusFailed, len(records), err.Error())
		return err
	}
	if err := s.repo.FinishRun(runID, RunStatusComplete, len(records), ""); err != nil {
		return err
	}

	s.log.Info().
		Str("run_id", runID).
		Int("candidates", len(records)).
		Dur("elapsed", timer.Stop()).
		Msg("Screening run persisted")

	if s.exporter != nil {
		run.Status = RunStatusComplete
		run.CandidateCount = len(records)
		if err := s.exporter.Export(ctx, run, records); err != nil {
			s.log.Warn().Err(err).Str("run_id", runID).Msg("Export failed")
		}
	}

	return nil
}

// GetRun returns a run by ID, or nil when unknown.
func (s *Service) GetRun(id string) (*Run, error) {
	return s.repo.GetRun(id)
}

// ListRuns returns recent runs, newest first.
func (s *Service) ListRuns(limit int) ([]Run, error) {
	return s.repo.ListRuns(limit)
}

// GetResults returns a run's records ordered by score.
func (s *Service) GetResults(runID string) ([]Record, error) {
	return s.repo.GetResults(runID)
}
