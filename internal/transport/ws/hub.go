package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub maps assigned player tokens to live connections and implements
// service.Broadcaster. Tokens are process-wide, start at 1 and are never
// reused.
type Hub struct {
	conns map[int64]*Connection
	mu    sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	nextToken atomic.Int64
	logger    *zap.Logger
}

// Connection represents one player's WebSocket connection
type Connection struct {
	Token int64
	Send  chan []byte
	Hub   *Hub
}

// BroadcastMessage is an outbound event with its recipient tokens
type BroadcastMessage struct {
	Tokens  []int64
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[int64]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		logger:     logger,
	}
	h.nextToken.Store(1)
	go h.run()
	return h
}

// AssignToken hands out the next process-wide token.
func (h *Hub) AssignToken() int64 {
	return h.nextToken.Add(1) - 1
}

// MaxToken is the next token to be assigned, mirrored on /status.
func (h *Hub) MaxToken() int64 {
	return h.nextToken.Load()
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.Token] = conn
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.Token]; ok && existing == conn {
				delete(h.conns, conn.Token)
				close(conn.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for _, token := range msg.Tokens {
				if conn, ok := h.conns[token]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// ToMember sends an event to a single player (implements service.Broadcaster)
func (h *Hub) ToMember(token int64, msgType string, payload interface{}) {
	h.ToMembers([]int64{token}, msgType, payload)
}

// ToMembers sends an event to every listed player (implements service.Broadcaster)
func (h *Hub) ToMembers(tokens []int64, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("payload marshal failed", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.broadcast <- &BroadcastMessage{
		Tokens: tokens,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
