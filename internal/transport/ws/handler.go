package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"quizbattle/internal/model"
	"quizbattle/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades client connections and dispatches inbound game events
// into the battle core.
type Handler struct {
	hub    *Hub
	battle *service.BattleService
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, battle *service.BattleService, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		battle: battle,
		logger: logger,
	}
}

// ServeWS handles GET /ws. The new connection is told its token immediately.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	token := h.hub.AssignToken()
	conn := &Connection{
		Token: token,
		Send:  make(chan []byte, 256),
		Hub:   h.hub,
	}

	h.hub.Register(conn)
	h.hub.ToMember(token, model.EventToken, token)

	h.logger.Info("player connected", zap.Int64("token", token))

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.battle.Disconnect(conn.Token)
		h.hub.Unregister(conn)
		wsConn.Close()
		h.logger.Info("player disconnected", zap.Int64("token", conn.Token))
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.Int64("token", conn.Token), zap.Error(err))
			}
			break
		}
		h.dispatch(data)
	}
}

// dispatch validates the envelope and routes it into the battle core. Events
// outside the closed join/move set are dropped.
func (h *Handler) dispatch(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Warn("bad message envelope", zap.Error(err))
		return
	}

	switch msg.Type {
	case model.EventJoin:
		var p model.JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.logger.Warn("bad join payload", zap.Error(err))
			return
		}
		h.battle.Join(p.Token, p.Name)

	case model.EventMove:
		var p model.MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.logger.Warn("bad move payload", zap.Error(err))
			return
		}
		h.battle.Move(p.Room, p.Token, p.Key)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
