package handler

import (
	"encoding/json"
	"net/http"

	"quizbattle/internal/service"
	"quizbattle/internal/transport/ws"
)

// StatusHandler exposes the redacted debug projection of the waiting queue
// and the room registry: tokens and names only.
type StatusHandler struct {
	battle *service.BattleService
	hub    *ws.Hub
}

func NewStatusHandler(battle *service.BattleService, hub *ws.Hub) *StatusHandler {
	return &StatusHandler{
		battle: battle,
		hub:    hub,
	}
}

type statusResponse struct {
	MaxToken    int64                  `json:"maxToken"`
	WaitingRoom []service.WaitingEntry `json:"waitingRoom"`
	BattleRoom  []service.BattleEntry  `json:"battleRoom"`
}

// Status handles GET /status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	waiting, battles := h.battle.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		MaxToken:    h.hub.MaxToken(),
		WaitingRoom: waiting,
		BattleRoom:  battles,
	})
}
