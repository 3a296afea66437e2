package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quizbattle/config"
	"quizbattle/internal/cache"
	"quizbattle/internal/model"

	"go.uber.org/zap"
)

// BattleService owns the waiting queue, the battle-room registry and every
// room's round state. Every entry point serializes on a single mutex, so
// gateway dispatches and the matchmaking tick never interleave over shared
// state. Nothing blocks on I/O while the lock is held.
type BattleService struct {
	mu sync.Mutex

	game      *config.Game
	questions QuestionSource
	queue     *WaitingQueue
	rooms     map[string]*model.BattleRoom

	broadcaster Broadcaster
	leaderboard cache.LeaderboardCache
	logger      *zap.Logger

	nextBattleID int64
	now          func() time.Time
}

// NewBattleService creates the battle core.
func NewBattleService(game *config.Game, questions QuestionSource, logger *zap.Logger) *BattleService {
	return &BattleService{
		game:         game,
		questions:    questions,
		queue:        NewWaitingQueue(),
		rooms:        make(map[string]*model.BattleRoom),
		logger:       logger,
		nextBattleID: 1,
		now:          time.Now,
	}
}

// SetBroadcaster injects the outbound event sink (the ws hub implements it).
func (s *BattleService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetLeaderboard injects the optional win counter.
func (s *BattleService) SetLeaderboard(lb cache.LeaderboardCache) {
	s.leaderboard = lb
}

// Run fires the matchmaking sweep on a fixed interval until ctx is done.
func (s *BattleService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.game.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Join puts a player into the waiting queue. A token already queued or
// seated is rejected.
func (s *BattleService) Join(token int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memberRoom(token) != nil {
		s.logger.Warn("join rejected, token already in a room", zap.Int64("token", token))
		return
	}
	if err := s.queue.Enqueue(&model.Player{Token: token, Name: name}); err != nil {
		s.logger.Warn("join rejected", zap.Int64("token", token), zap.Error(err))
		return
	}
	s.logger.Info("player joined", zap.Int64("token", token), zap.String("name", name))
}

// Sweep runs one matchmaking pass: when enough players wait, drain exactly
// one match worth of them (oldest first) and start a room. Excess players
// stay queued for the next tick.
func (s *BattleService) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Len() < s.game.MatchSize {
		return
	}

	players, err := s.queue.Dequeue(s.game.MatchSize)
	if err != nil {
		return
	}

	members := make([]*model.Member, len(players))
	for seat, p := range players {
		members[seat] = &model.Member{
			Token:  p.Token,
			Name:   p.Name,
			Avatar: seat + 1,
			Pos:    s.game.Spawns[seat],
			Size:   s.game.PlayerSize,
		}
	}

	q := s.questions.Next()
	room := &model.BattleRoom{
		Name:     fmt.Sprintf("battle-%d", s.nextBattleID),
		Members:  members,
		Question: q.Text,
		Answer:   q.Answer,
		Pending:  make(map[int64]model.PendingAnswer),
	}
	s.nextBattleID++
	s.rooms[room.Name] = room

	s.logger.Info("match started",
		zap.String("room", room.Name),
		zap.Int64s("tokens", room.Tokens()))

	s.broadcast(room, model.EventStart, model.StartPayload{
		Room:     room.Name,
		Question: room.Question,
		Members:  room.Members,
		Answer:   s.game.Zones,
	})
}

// Move applies one directional step for a member, broadcasts the new
// position and re-evaluates the member's zone answer. Unknown rooms, tokens
// and directions are dropped silently.
func (s *BattleService) Move(roomName string, token int64, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomName]
	if !ok {
		return
	}
	member := room.Member(token)
	if member == nil {
		return
	}

	switch key {
	case model.DirUp:
		member.Pos.Y -= s.game.Speed
	case model.DirDown:
		member.Pos.Y += s.game.Speed
	case model.DirLeft:
		member.Pos.X -= s.game.Speed
	case model.DirRight:
		member.Pos.X += s.game.Speed
	default:
		return
	}

	s.broadcast(room, model.EventMemberMove, model.MemberMovePayload{
		Token: token,
		Pos:   member.Pos,
	})

	switch rect := member.Rect(); {
	case rect.Intersects(s.game.Zones.O):
		room.Pending[token] = model.PendingAnswer{Answer: true, Time: s.now()}
	case rect.Intersects(s.game.Zones.X):
		room.Pending[token] = model.PendingAnswer{Answer: false, Time: s.now()}
	default:
		// walking off a zone retracts the answer
		delete(room.Pending, token)
	}

	if len(room.Pending) >= len(room.Members) {
		s.resolve(room)
	}
}

// resolve ends the round once every member has a live answer. The earliest
// correct answer wins; equal timestamps fall back to the lower token. With
// no correct answer the round resets in place. Caller holds the lock.
func (s *BattleService) resolve(room *model.BattleRoom) {
	var winner *model.Member
	var winnerAt time.Time
	for _, m := range room.Members {
		pa, ok := room.Pending[m.Token]
		if !ok || pa.Answer != room.Answer {
			continue
		}
		if winner == nil || pa.Time.Before(winnerAt) ||
			(pa.Time.Equal(winnerAt) && m.Token < winner.Token) {
			winner = m
			winnerAt = pa.Time
		}
	}

	if winner == nil {
		s.resetRound(room)
		return
	}
	s.finish(room, winner)
}

// resetRound keeps the membership and restarts the round with a fresh
// question and seat-indexed spawn positions.
func (s *BattleService) resetRound(room *model.BattleRoom) {
	q := s.questions.Next()
	room.Question = q.Text
	room.Answer = q.Answer
	room.Pending = make(map[int64]model.PendingAnswer)
	for seat, m := range room.Members {
		m.Pos = s.game.Spawns[seat]
	}

	s.logger.Info("round drawn", zap.String("room", room.Name))

	s.broadcast(room, model.EventDraw, model.DrawPayload{
		Question: room.Question,
		Members:  room.Members,
	})
}

// finish reveals the answer, names the winner and removes the room. Caller
// holds the lock.
func (s *BattleService) finish(room *model.BattleRoom, winner *model.Member) {
	s.broadcast(room, model.EventFinish, model.FinishPayload{
		Answer: room.Answer,
		Win:    winner.Token,
	})
	delete(s.rooms, room.Name)

	s.logger.Info("match finished",
		zap.String("room", room.Name),
		zap.Int64("winner", winner.Token))

	if s.leaderboard != nil {
		go s.recordWin(winner.Name)
	}
}

// recordWin runs off the service lock so no handler blocks on Redis.
func (s *BattleService) recordWin(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.leaderboard.IncrWins(ctx, name); err != nil {
		s.logger.Warn("leaderboard update failed", zap.String("name", name), zap.Error(err))
	}
}

// Disconnect removes a queued player, or ends their room as a walkover for
// the lowest remaining member token. Policy documented in DESIGN.md.
func (s *BattleService) Disconnect(token int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Remove(token) {
		s.logger.Info("queued player left", zap.Int64("token", token))
		return
	}

	room := s.memberRoom(token)
	if room == nil {
		return
	}

	var winner *model.Member
	for _, m := range room.Members {
		if m.Token == token {
			continue
		}
		if winner == nil || m.Token < winner.Token {
			winner = m
		}
	}
	if winner == nil {
		delete(s.rooms, room.Name)
		return
	}

	s.logger.Info("walkover",
		zap.String("room", room.Name),
		zap.Int64("left", token),
		zap.Int64("winner", winner.Token))
	s.finish(room, winner)
}

// memberRoom finds the room holding a token, or nil. Caller holds the lock.
func (s *BattleService) memberRoom(token int64) *model.BattleRoom {
	for _, room := range s.rooms {
		if room.Member(token) != nil {
			return room
		}
	}
	return nil
}

func (s *BattleService) broadcast(room *model.BattleRoom, msgType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.ToMembers(room.Tokens(), msgType, payload)
}

// WaitingEntry and BattleEntry form the redacted /status projection: tokens
// and names only, no transport handles, no ground-truth answer.
type WaitingEntry struct {
	Token int64  `json:"token"`
	Name  string `json:"name"`
}

type BattleEntry struct {
	Name    string         `json:"name"`
	Members []WaitingEntry `json:"members"`
}

// Status snapshots the waiting queue and the room registry.
func (s *BattleService) Status() ([]WaitingEntry, []BattleEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	waiting := make([]WaitingEntry, 0, s.queue.Len())
	for _, p := range s.queue.Snapshot() {
		waiting = append(waiting, WaitingEntry{Token: p.Token, Name: p.Name})
	}

	battles := make([]BattleEntry, 0, len(s.rooms))
	for _, room := range s.rooms {
		members := make([]WaitingEntry, len(room.Members))
		for i, m := range room.Members {
			members[i] = WaitingEntry{Token: m.Token, Name: m.Name}
		}
		battles = append(battles, BattleEntry{Name: room.Name, Members: members})
	}
	sort.Slice(battles, func(i, j int) bool { return battles[i].Name < battles[j].Name })

	return waiting, battles
}
