package model

// Inbound event types carried in the WebSocket envelope.
const (
	EventJoin = "join"
	EventMove = "move"
)

// Outbound event types.
const (
	EventToken      = "token"
	EventStart      = "start"
	EventMemberMove = "member-move"
	EventDraw       = "draw"
	EventFinish     = "finish"
)

// Directions accepted by a move event. Anything else is dropped silently.
const (
	DirUp    = "up"
	DirDown  = "down"
	DirLeft  = "left"
	DirRight = "right"
)

// JoinPayload asks to enter the waiting queue.
type JoinPayload struct {
	Token int64  `json:"token"`
	Name  string `json:"name"`
}

// MovePayload is one directional step for a room member.
type MovePayload struct {
	Room  string `json:"room"`
	Token int64  `json:"token"`
	Key   string `json:"key"`
}

// ZonePair is the pair of answer zones sent with a start event.
type ZonePair struct {
	O Rect `json:"o"` // true zone
	X Rect `json:"x"` // false zone
}

// StartPayload announces a new room to its members. It carries the question
// text but never the truth value.
type StartPayload struct {
	Room     string    `json:"room"`
	Question string    `json:"question"`
	Members  []*Member `json:"members"`
	Answer   ZonePair  `json:"answer"`
}

// MemberMovePayload reports a member's new position to the whole room.
type MemberMovePayload struct {
	Token int64 `json:"token"`
	Pos   Vec   `json:"pos"`
}

// DrawPayload restarts the round after nobody answered correctly.
type DrawPayload struct {
	Question string    `json:"question"`
	Members  []*Member `json:"members"`
}

// FinishPayload ends the match and finally reveals the truth value.
type FinishPayload struct {
	Answer bool  `json:"answer"`
	Win    int64 `json:"win"`
}
