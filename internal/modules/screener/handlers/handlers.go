// Package handlers provides HTTP handlers for screening runs and results.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shivvp96/LeapFinder/internal/modules/export"
	"github.com/shivvp96/LeapFinder/internal/modules/screener"
	"github.com/shivvp96/LeapFinder/internal/modules/sentiment"
)

// Handler provides HTTP handlers for screener endpoints
type Handler struct {
	service *screener.Service
	log     zerolog.Logger
}

// NewHandler creates a new screener handler
func NewHandler(service *screener.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "screener").Logger(),
	}
}

// RegisterRoutes mounts the screener endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/screener/defaults", h.HandleDefaults)
	r.Get("/screener/status", h.HandleStatus)
	r.Post("/screener/runs", h.HandleStartRun)
	r.Get("/screener/runs", h.HandleListRuns)
	r.Get("/screener/runs/{id}", h.HandleGetRun)
	r.Get("/screener/runs/{id}/results", h.HandleGetResults)
	r.Get("/screener/runs/{id}/export", h.HandleExportCSV)
}

// startRunRequest carries optional overrides of the default criteria.
// Pointer fields distinguish "not provided" from zero values.
type startRunRequest struct {
	Market                  *string  `json:"market"`
	MinDropFromATHPct       *float64 `json:"min_drop_from_ath_pct"`
	MinMarketCapUSD         *float64 `json:"min_market_cap_usd"`
	MinIVHVRatio            *float64 `json:"min_iv_hv_ratio"`
	Sentiments              []string `json:"sentiments"`
	RequireUpcomingEarnings *bool    `json:"require_upcoming_earnings"`
}

// merge applies the request's overrides onto the default criteria.
func (req startRunRequest) merge(defaults screener.Criteria) (screener.Criteria, error) {
	c := defaults

	if req.Market != nil {
		c.Market = *req.Market
	}
	if req.MinDropFromATHPct != nil {
		c.MinDropFromATHPct = *req.MinDropFromATHPct
	}
	if req.MinMarketCapUSD != nil {
		c.MinMarketCapUSD = *req.MinMarketCapUSD
	}
	if req.MinIVHVRatio != nil {
		c.MinIVHVRatio = *req.MinIVHVRatio
	}
	if req.RequireUpcomingEarnings != nil {
		c.RequireUpcomingEarnings = *req.RequireUpcomingEarnings
	}
	if req.Sentiments != nil {
		labels := make([]sentiment.Label, 0, len(req.Sentiments))
		for _, s := range req.Sentiments {
			label := sentiment.Label(s)
			if !label.Valid() {
				return screener.Criteria{}, fmt.Errorf("invalid sentiment %q", s)
			}
			labels = append(labels, label)
		}
		c.Sentiments = labels
	}

	return c, nil
}

// HandleDefaults handles GET /api/screener/defaults
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, h.service.Defaults())
}

// HandleStatus handles GET /api/screener/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, map[string]bool{"running": h.service.IsRunning()})
}

// HandleStartRun handles POST /api/screener/runs
// An empty body starts a run with the configured defaults.
func (h *Handler) HandleStartRun(w http.ResponseWriter, r *http.Request) {
	var req startRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	criteria, err := req.merge(h.service.Defaults())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID, err := h.service.StartRun(criteria)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to start screening run")
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"run_id": runID, "status": screener.RunStatusRunning}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode start run response")
	}
}

// HandleListRuns handles GET /api/screener/runs?limit=N
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.service.ListRuns(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []screener.Run{}
	}

	writeJSON(w, h.log, runs)
}

// HandleGetRun handles GET /api/screener/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, h.log, run)
}

// HandleGetResults handles GET /api/screener/runs/{id}/results
func (h *Handler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	records, err := h.service.GetResults(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get results")
		http.Error(w, "Failed to get results", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []screener.Record{}
	}

	writeJSON(w, h.log, map[string]interface{}{
		"run":     run,
		"results": records,
	})
}

// HandleExportCSV handles GET /api/screener/runs/{id}/export
// Streams the run's results as a CSV attachment.
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	records, err := h.service.GetResults(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get results")
		http.Error(w, "Failed to get results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
	if err := export.WriteCSV(w, records); err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to write CSV response")
	}
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
