package model

// Player is a connected participant waiting to be matched.
type Player struct {
	Token int64  `json:"token"`
	Name  string `json:"name"`
}

// Member is a player seated in a battle room.
type Member struct {
	Token  int64  `json:"token"`
	Name   string `json:"name"`
	Avatar int    `json:"avatar"` // 1-based seat order, picks sprite and spawn
	Pos    Vec    `json:"pos"`
	Size   Size   `json:"size"`
}

// Rect is the member's current collision rectangle.
func (m *Member) Rect() Rect {
	return Rect{X: m.Pos.X, Y: m.Pos.Y, Width: m.Size.Width, Height: m.Size.Height}
}
