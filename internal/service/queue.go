package service

import (
	"errors"
	"fmt"

	"quizbattle/internal/model"
)

// ErrInsufficientPlayers is returned when Dequeue asks for more players than
// are waiting. The queue is left untouched; there is no partial drain.
var ErrInsufficientPlayers = errors.New("not enough waiting players")

// WaitingQueue holds connected-but-unmatched players in join order. Not safe
// for concurrent use; the battle service serializes access.
type WaitingQueue struct {
	players []*model.Player
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{}
}

// Enqueue appends a player. A token may only be queued once.
func (q *WaitingQueue) Enqueue(p *model.Player) error {
	for _, waiting := range q.players {
		if waiting.Token == p.Token {
			return fmt.Errorf("token %d already queued", p.Token)
		}
	}
	q.players = append(q.players, p)
	return nil
}

// Dequeue atomically removes and returns the n oldest players.
func (q *WaitingQueue) Dequeue(n int) ([]*model.Player, error) {
	if len(q.players) < n {
		return nil, ErrInsufficientPlayers
	}

	out := make([]*model.Player, n)
	copy(out, q.players[:n])
	q.players = q.players[n:]
	return out, nil
}

func (q *WaitingQueue) Len() int {
	return len(q.players)
}

// Remove drops a token from the queue if present.
func (q *WaitingQueue) Remove(token int64) bool {
	for i, p := range q.players {
		if p.Token == token {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot copies the waiting list for the debug projection.
func (q *WaitingQueue) Snapshot() []*model.Player {
	out := make([]*model.Player, len(q.players))
	copy(out, q.players)
	return out
}
