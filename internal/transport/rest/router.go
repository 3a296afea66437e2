package rest

import (
	"net/http"

	"quizbattle/internal/cache"
	"quizbattle/internal/service"
	"quizbattle/internal/transport/rest/handler"
	"quizbattle/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	Battle      *service.BattleService
	Leaderboard cache.LeaderboardCache
	WSHub       *ws.Hub
	WSHandler   *ws.Handler
	PublicDir   string
}

// NewRouter creates the router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	statusHandler := handler.NewStatusHandler(c.Battle, c.WSHub)
	lbHandler := handler.NewLeaderboardHandler(c.Leaderboard)

	r.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")
	r.HandleFunc("/status", statusHandler.Status).Methods("GET")
	r.HandleFunc("/leaderboard", lbHandler.Top).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Static client assets
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(c.PublicDir)))

	return r
}
