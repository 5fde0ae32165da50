// Package main is the entry point for the LeapFinder screening service.
// It screens large-cap equities for LEAP option entry candidates: deep
// drawdowns from all-time highs, elevated implied-to-historical volatility,
// and supportive news sentiment, ranked by a composite score.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/clients/newsapi"
	"github.com/shivvp96/LeapFinder/internal/clients/yahoo"
	"github.com/shivvp96/LeapFinder/internal/config"
	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/modules/export"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
	"github.com/shivvp96/LeapFinder/internal/modules/universe"
	"github.com/shivvp96/LeapFinder/internal/modules/volatility"
	"github.com/shivvp96/LeapFinder/internal/ratelimit"
	"github.com/shivvp96/LeapFinder/internal/scheduler"
	"github.com/shivvp96/LeapFinder/internal/server"
	"github.com/shivvp96/LeapFinder/internal/utils"
	"github.com/shivvp96/LeapFinder/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting LeapFinder")

	// Screener database holds run history and results, cache database holds
	// the ephemeral price series cache. Separate files so the cache can be
	// deleted freely.
	screenerDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "screener.db"),
		Profile: database.ProfileStandard,
		Name:    "screener",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open screener database")
	}
	defer screenerDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := screenerDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate screener database")
	}
	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	// External clients, each paced by its own limiter.
	priceCache := yahoo.NewPriceCache(cacheDB, cfg.PriceCacheTTL, log)
	marketClient := yahoo.NewClient(ratelimit.NewPaced(cfg.MarketDataDelay), priceCache, log)
	newsClient := newsapi.NewClient(cfg.NewsAPIKey, ratelimit.NewPaced(cfg.SentimentDelay), log)

	classifier := buildClassifier(cfg, log)

	pipeline := screener.NewPipeline(
		marketClient,
		newsClient,
		classifier,
		volatility.NewEstimator(volatility.DefaultReturnWindow),
		volatility.NewSyntheticStrategy(uint64(time.Now().UnixNano())),
		cfg.StageWorkers,
		log,
	)

	repo := screener.NewRepository(screenerDB.Conn(), log)

	exporter, err := buildExporter(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize exporter")
	}

	svc := screener.NewService(
		pipeline,
		universe.NewResolver(log),
		repo,
		exporter,
		buildDefaultCriteria(cfg, log),
		log,
	)

	// Background jobs: nightly maintenance always, scheduled screening
	// only when a cron expression is configured.
	sched := scheduler.New(log)
	maintenance := scheduler.NewMaintenanceJob(
		priceCache, repo,
		[]*database.DB{screenerDB, cacheDB},
		cfg.RunRetention, log,
	)
	if err := sched.AddJob("@daily", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}
	if cfg.ScreenerCron != "" {
		if err := sched.AddJob(cfg.ScreenerCron, scheduler.NewScreeningJob(svc, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register screening job")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:             log,
		Config:          cfg,
		ScreenerDB:      screenerDB,
		CacheDB:         cacheDB,
		ScreenerService: svc,
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}

// buildClassifier picks the sentiment classifier: Claude when an API key
// is configured, the keyword heuristic otherwise. The LLM classifier
// keeps the keyword one as its fallback.
func buildClassifier(cfg *config.Config, log zerolog.Logger) sentiment.Classifier {
	keyword := sentiment.NewKeywordClassifier(log)

	if cfg.AnthropicAPIKey == "" {
		log.Info().Msg("No Anthropic API key configured, using keyword sentiment classifier")
		return keyword
	}

	log.Info().Str("model", cfg.ClaudeModel).Msg("Using Claude sentiment classifier")
	return sentiment.NewLLMClassifier(cfg.AnthropicAPIKey, cfg.ClaudeModel, keyword, log)
}

// buildExporter creates the file exporter, with S3 uploads when configured.
func buildExporter(cfg *config.Config, log zerolog.Logger) (*export.FileExporter, error) {
	var uploader *export.S3Uploader
	if cfg.Export.Enabled() {
		var err error
		uploader, err = export.NewS3Uploader(context.Background(), cfg.Export, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.Export.Bucket).Msg("Export uploads enabled")
	}

	return export.NewFileExporter(filepath.Join(cfg.DataDir, "exports"), uploader, log)
}

// buildDefaultCriteria translates configured screening defaults into
// pipeline criteria. Unknown sentiment labels are skipped with a warning.
func buildDefaultCriteria(cfg *config.Config, log zerolog.Logger) screener.Criteria {
	var labels []sentiment.Label
	for _, raw := range utils.ParseCSV(cfg.Screener.SentimentFilter) {
		label := sentiment.Label(strings.ToUpper(raw))
		if !label.Valid() {
			log.Warn().Str("sentiment", raw).Msg("Ignoring unknown sentiment label in defaults")
			continue
		}
		labels = append(labels, label)
	}

	return screener.Criteria{
		Market:                  cfg.Screener.MarketSelector,
		MinDropFromATHPct:       cfg.Screener.MinDropFromATHPct,
		MinMarketCapUSD:         cfg.Screener.MinMarketCapUSD,
		MinIVHVRatio:            cfg.Screener.MinIVHVRatio,
		Sentiments:              labels,
		RequireUpcomingEarnings: cfg.Screener.RequireUpcomingEarnings,
	}
}
