package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizbattle/internal/cache"
)

// LeaderboardHandler serves the all-time win leaderboard.
type LeaderboardHandler struct {
	leaderboard cache.LeaderboardCache
}

func NewLeaderboardHandler(lb cache.LeaderboardCache) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: lb}
}

// Top handles GET /leaderboard?limit=10
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		http.Error(w, "leaderboard disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), limit)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
