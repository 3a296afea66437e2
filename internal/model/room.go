package model

import "time"

// PendingAnswer is a member's current zone answer and when it was recorded.
type PendingAnswer struct {
	Answer bool
	Time   time.Time
}

// BattleRoom owns one match. Membership is fixed at creation; the room is
// reset in place on a draw and removed from the registry on a win.
type BattleRoom struct {
	Name     string                  `json:"name"`
	Members  []*Member               `json:"members"`
	Question string                  `json:"question"`
	Answer   bool                    `json:"-"` // server-private ground truth
	Pending  map[int64]PendingAnswer `json:"-"`
}

// Member returns the seated member with the given token, or nil.
func (r *BattleRoom) Member(token int64) *Member {
	for _, m := range r.Members {
		if m.Token == token {
			return m
		}
	}
	return nil
}

// Tokens lists every member token in seat order.
func (r *BattleRoom) Tokens() []int64 {
	tokens := make([]int64, len(r.Members))
	for i, m := range r.Members {
		tokens[i] = m.Token
	}
	return tokens
}
