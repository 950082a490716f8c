package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/service"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/gorilla/mux"
)

// defaultSeason is served when a request omits ?season.
const defaultSeason = 2025

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db               *store.Database
	statsService     *service.StatsService
	analyticsService *service.AnalyticsService
	referenceService *service.ReferenceService
}

// NewHandler creates a new handler. redisCache may be nil.
func NewHandler(db *store.Database, redisCache *cache.RedisCache) *Handler {
	return &Handler{
		db:               db,
		statsService:     service.NewStatsService(db),
		analyticsService: service.NewAnalyticsService(db, redisCache),
		referenceService: service.NewReferenceService(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetPlayerSeason returns a player's weekly stat lines plus season totals.
func (h *Handler) GetPlayerSeason(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerID"]
	season := seasonParam(r)

	line, err := h.statsService.GetPlayerSeason(r.Context(), season, playerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player stats", err)
		return
	}
	if len(line.Weeks) == 0 {
		respondError(w, http.StatusNotFound, "No stats for player", nil)
		return
	}

	respondJSON(w, http.StatusOK, line)
}

// GetPlayerSplits returns a player's WP splits across a season.
func (h *Handler) GetPlayerSplits(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerID"]
	season := seasonParam(r)

	splits, err := h.analyticsService.GetPlayerSplits(r.Context(), season, playerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player splits", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"season":    season,
		"splits":    splits,
	})
}

// GetWeekScores returns every player's fantasy scores for a week.
func (h *Handler) GetWeekScores(w http.ResponseWriter, r *http.Request) {
	week, ok := weekVar(w, r)
	if !ok {
		return
	}
	season := seasonParam(r)

	scores, err := h.statsService.GetWeekScores(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch week scores", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"week":   week,
		"scores": scores,
		"count":  len(scores),
	})
}

// GetWeekUsage returns per-player usage rows for a week.
func (h *Handler) GetWeekUsage(w http.ResponseWriter, r *http.Request) {
	week, ok := weekVar(w, r)
	if !ok {
		return
	}
	season := seasonParam(r)

	usage, err := h.analyticsService.GetWeekUsage(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch week usage", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"week":   week,
		"usage":  usage,
		"count":  len(usage),
	})
}

// GetWeekSplits returns the WP splits for a week, highest total WPA first.
func (h *Handler) GetWeekSplits(w http.ResponseWriter, r *http.Request) {
	week, ok := weekVar(w, r)
	if !ok {
		return
	}
	season := seasonParam(r)

	splits, err := h.analyticsService.GetWeekSplits(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch week splits", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"week":   week,
		"splits": splits,
		"count":  len(splits),
	})
}

// GetTeamContext returns a team's weekly efficiency rows for one side of
// the ball. ?side=offense|defense, defaulting to offense.
func (h *Handler) GetTeamContext(w http.ResponseWriter, r *http.Request) {
	team := strings.ToUpper(mux.Vars(r)["team"])
	season := seasonParam(r)

	side := repository.SideOffense
	if s := r.URL.Query().Get("side"); s != "" {
		switch s {
		case "offense":
		case "defense":
			side = repository.SideDefense
		default:
			respondError(w, http.StatusBadRequest, "Invalid side (use offense or defense)", nil)
			return
		}
	}

	records, err := h.analyticsService.GetTeamContext(r.Context(), side, season, team)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch team context", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"season":  season,
		"side":    side,
		"context": records,
	})
}

// GetDepthChart returns one team's depth chart for a week.
func (h *Handler) GetDepthChart(w http.ResponseWriter, r *http.Request) {
	team := strings.ToUpper(mux.Vars(r)["team"])
	season := seasonParam(r)

	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		respondError(w, http.StatusBadRequest, "Missing or invalid week parameter", err)
		return
	}

	slots, err := h.referenceService.GetDepthChart(r.Context(), season, week, team)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch depth chart", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":   team,
		"season": season,
		"week":   week,
		"slots":  slots,
	})
}

// GetSchedule returns the season schedule, optionally filtered by ?week.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	season := seasonParam(r)

	week := 0
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		var err error
		week, err = strconv.Atoi(weekStr)
		if err != nil || week < 1 {
			respondError(w, http.StatusBadRequest, "Invalid week parameter", err)
			return
		}
	}

	games, err := h.referenceService.GetSchedule(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"games":  games,
		"count":  len(games),
	})
}

// seasonParam reads ?season, defaulting to the current season.
func seasonParam(r *http.Request) int {
	if s := r.URL.Query().Get("season"); s != "" {
		if season, err := strconv.Atoi(s); err == nil && season >= 1999 {
			return season
		}
	}
	return defaultSeason
}

// weekVar parses the {week} path variable, writing a 400 on failure.
func weekVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil || week < 1 || week > 22 {
		respondError(w, http.StatusBadRequest, "Invalid week", err)
		return 0, false
	}
	return week, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
