package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/shivvp96/LeapFinder/internal/database"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
)

// SystemHandlers provides HTTP handlers for health and system monitoring
type SystemHandlers struct {
	log        zerolog.Logger
	dataDir    string
	screenerDB *database.DB
	cacheDB    *database.DB
	service    *screener.Service
}

// NewSystemHandlers creates system monitoring handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, screenerDB, cacheDB *database.DB, service *screener.Service) *SystemHandlers {
	return &SystemHandlers{
		log:        log.With().Str("handler", "system").Logger(),
		dataDir:    dataDir,
		screenerDB: screenerDB,
		cacheDB:    cacheDB,
		service:    service,
	}
}

// SystemStatusResponse is the /api/system/status payload
type SystemStatusResponse struct {
	Status           string  `json:"status"`
	ScreeningRunning bool    `json:"screening_running"`
	CPUPercent       float64 `json:"cpu_percent"`
	RAMPercent       float64 `json:"ram_percent"`
	DatabasesHealthy bool    `json:"databases_healthy"`
	CheckedAt        string  `json:"checked_at"`
}

// DBStatsInfo describes one database file in the stats response
type DBStatsInfo struct {
	Name          string  `json:"name"`
	SizeMB        float64 `json:"size_mb"`
	WALSizeMB     float64 `json:"wal_size_mb"`
	PageCount     int64   `json:"page_count"`
	FreelistCount int64   `json:"freelist_count"`
}

// HandleHealth handles GET /health
// A liveness probe: cheap, no system stats, just database pings.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	if !h.databasesHealthy(ctx) {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"service": "leapfinder",
	}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cpuPct, ramPct := h.getSystemStats()
	healthy := h.databasesHealthy(ctx)

	status := "ok"
	if !healthy {
		status = "degraded"
	}

	response := SystemStatusResponse{
		Status:           status,
		ScreeningRunning: h.service.IsRunning(),
		CPUPercent:       cpuPct,
		RAMPercent:       ramPct,
		DatabasesHealthy: healthy,
		CheckedAt:        time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	databases := []DBStatsInfo{}

	for _, db := range []*database.DB{h.screenerDB, h.cacheDB} {
		if db == nil {
			continue
		}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			continue
		}
		databases = append(databases, DBStatsInfo{
			Name:          db.Name(),
			SizeMB:        float64(stats.SizeBytes) / 1024 / 1024,
			WALSizeMB:     float64(stats.WALSizeBytes) / 1024 / 1024,
			PageCount:     stats.PageCount,
			FreelistCount: stats.FreelistCount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"databases":    databases,
		"last_checked": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode database stats")
	}
}

// HandleDiskUsage handles GET /api/system/disk
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	dataDirSize := h.getDirSize(h.dataDir)
	exportsSize := h.getDirSize(filepath.Join(h.dataDir, "exports"))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data_dir_mb": dataDirSize,
		"exports_mb":  exportsSize,
	}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode disk usage")
	}
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// databasesHealthy pings both databases
func (h *SystemHandlers) databasesHealthy(ctx context.Context) bool {
	for _, db := range []*database.DB{h.screenerDB, h.cacheDB} {
		if db == nil {
			continue
		}
		if err := db.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			return false
		}
	}
	return true
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the endpoint stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
