package service

import (
	"context"
	"testing"
	"time"

	"quizbattle/config"
	"quizbattle/internal/cache"
	"quizbattle/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testGame uses a small arena where a single "up" step from either spawn
// lands the avatar on the matching zone.
func testGame() *config.Game {
	return &config.Game{
		MatchSize:       2,
		SweepIntervalMs: 1000,
		Speed:           10,
		PlayerSize:      model.Size{Width: 20, Height: 20},
		Spawns:          []model.Vec{{X: 10, Y: 55}, {X: 310, Y: 55}},
		Zones: model.ZonePair{
			O: model.Rect{X: 0, Y: 0, Width: 50, Height: 50},
			X: model.Rect{X: 300, Y: 0, Width: 50, Height: 50},
		},
	}
}

type recordedEvent struct {
	Tokens  []int64
	Type    string
	Payload interface{}
}

type fakeBroadcaster struct {
	events []recordedEvent
}

func (f *fakeBroadcaster) ToMember(token int64, msgType string, payload interface{}) {
	f.events = append(f.events, recordedEvent{Tokens: []int64{token}, Type: msgType, Payload: payload})
}

func (f *fakeBroadcaster) ToMembers(tokens []int64, msgType string, payload interface{}) {
	f.events = append(f.events, recordedEvent{Tokens: tokens, Type: msgType, Payload: payload})
}

func (f *fakeBroadcaster) byType(msgType string) []recordedEvent {
	var out []recordedEvent
	for _, e := range f.events {
		if e.Type == msgType {
			out = append(out, e)
		}
	}
	return out
}

type stubQuestions struct {
	list []model.Question
	i    int
}

func (s *stubQuestions) Next() model.Question {
	q := s.list[s.i%len(s.list)]
	s.i++
	return q
}

func newTestService(qs QuestionSource) (*BattleService, *fakeBroadcaster) {
	fb := &fakeBroadcaster{}
	s := NewBattleService(testGame(), qs, zap.NewNop())
	s.SetBroadcaster(fb)
	return s, fb
}

func seatedRoom(t *testing.T, s *BattleService) *model.BattleRoom {
	t.Helper()
	s.Join(1, "alice")
	s.Join(2, "bob")
	s.Sweep()
	room, ok := s.rooms["battle-1"]
	require.True(t, ok, "sweep should have created battle-1")
	return room
}

func TestSweep_CreatesRoomAndBroadcastsStart(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "Water is wet.", Answer: true}}})

	s.Join(1, "alice")
	s.Join(2, "bob")
	s.Join(3, "carol")
	s.Sweep()

	starts := fb.byType(model.EventStart)
	require.Len(t, starts, 1)
	assert.Equal(t, []int64{1, 2}, starts[0].Tokens)

	payload, ok := starts[0].Payload.(model.StartPayload)
	require.True(t, ok)
	assert.Equal(t, "battle-1", payload.Room)
	assert.Equal(t, "Water is wet.", payload.Question)
	assert.Equal(t, testGame().Zones, payload.Answer)
	require.Len(t, payload.Members, 2)
	assert.Equal(t, 1, payload.Members[0].Avatar)
	assert.Equal(t, 2, payload.Members[1].Avatar)
	assert.Equal(t, testGame().Spawns[0], payload.Members[0].Pos)
	assert.Equal(t, testGame().Spawns[1], payload.Members[1].Pos)

	// the third player waits for the next tick
	assert.Equal(t, 1, s.queue.Len())

	// a second sweep with one waiting player does nothing
	s.Sweep()
	assert.Len(t, fb.byType(model.EventStart), 1)
	assert.Equal(t, 1, s.queue.Len())
}

func TestSweep_NotEnoughPlayers(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})

	s.Join(1, "alice")
	s.Sweep()

	assert.Empty(t, fb.events)
	assert.Equal(t, 1, s.queue.Len())
	assert.Empty(t, s.rooms)
}

func TestMove_UpdatesPositionAndBroadcasts(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	s.Move(room.Name, 1, model.DirRight)

	moves := fb.byType(model.EventMemberMove)
	require.Len(t, moves, 1)
	assert.Equal(t, []int64{1, 2}, moves[0].Tokens)

	payload, ok := moves[0].Payload.(model.MemberMovePayload)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.Token)
	assert.Equal(t, model.Vec{X: 20, Y: 55}, payload.Pos)
	assert.Equal(t, model.Vec{X: 20, Y: 55}, room.Member(1).Pos)
}

func TestMove_UnknownDirectionIgnored(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)
	before := room.Member(1).Pos

	s.Move(room.Name, 1, "diagonal")

	assert.Empty(t, fb.byType(model.EventMemberMove))
	assert.Equal(t, before, room.Member(1).Pos)
}

func TestMove_UnknownRoomOrTokenIgnored(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	s.Move("battle-99", 1, model.DirUp)
	s.Move(room.Name, 42, model.DirUp)

	assert.Empty(t, fb.byType(model.EventMemberMove))
}

func TestMove_AnswerRecordingAndRetraction(t *testing.T) {
	s, _ := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	// step onto the true zone
	s.Move(room.Name, 1, model.DirUp)
	pa, ok := room.Pending[1]
	require.True(t, ok)
	assert.True(t, pa.Answer)

	// step back off: the answer is retracted
	s.Move(room.Name, 1, model.DirDown)
	_, ok = room.Pending[1]
	assert.False(t, ok)

	// the false zone records a false answer
	s.Move(room.Name, 2, model.DirUp)
	pa, ok = room.Pending[2]
	require.True(t, ok)
	assert.False(t, pa.Answer)
}

func TestResolve_FastestCorrectWins(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	base := time.Unix(1000, 0)
	room.Pending[1] = model.PendingAnswer{Answer: true, Time: base.Add(100 * time.Millisecond)}
	room.Pending[2] = model.PendingAnswer{Answer: true, Time: base.Add(50 * time.Millisecond)}
	s.resolve(room)

	finishes := fb.byType(model.EventFinish)
	require.Len(t, finishes, 1)
	payload, ok := finishes[0].Payload.(model.FinishPayload)
	require.True(t, ok)
	assert.Equal(t, int64(2), payload.Win)
	assert.True(t, payload.Answer)
	assert.Empty(t, s.rooms, "finished room must leave the registry")
}

func TestResolve_EqualTimestampsLowerTokenWins(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	at := time.Unix(1000, 0)
	room.Pending[1] = model.PendingAnswer{Answer: true, Time: at}
	room.Pending[2] = model.PendingAnswer{Answer: true, Time: at}
	s.resolve(room)

	finishes := fb.byType(model.EventFinish)
	require.Len(t, finishes, 1)
	assert.Equal(t, int64(1), finishes[0].Payload.(model.FinishPayload).Win)
}

func TestResolve_SingleCorrectWinsRegardlessOfTime(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: false}}})
	room := seatedRoom(t, s)

	base := time.Unix(1000, 0)
	room.Pending[1] = model.PendingAnswer{Answer: true, Time: base}
	room.Pending[2] = model.PendingAnswer{Answer: false, Time: base.Add(time.Second)}
	s.resolve(room)

	finishes := fb.byType(model.EventFinish)
	require.Len(t, finishes, 1)
	assert.Equal(t, int64(2), finishes[0].Payload.(model.FinishPayload).Win)
}

func TestResolve_AllWrongResetsRound(t *testing.T) {
	qs := &stubQuestions{list: []model.Question{
		{Text: "first question", Answer: true},
		{Text: "second question", Answer: false},
	}}
	s, fb := newTestService(qs)
	room := seatedRoom(t, s)
	require.Equal(t, "first question", room.Question)

	// move both members around, then record two wrong answers
	s.Move(room.Name, 1, model.DirRight)
	s.Move(room.Name, 2, model.DirLeft)
	room.Pending[1] = model.PendingAnswer{Answer: false, Time: time.Unix(1000, 0)}
	room.Pending[2] = model.PendingAnswer{Answer: false, Time: time.Unix(1001, 0)}
	s.resolve(room)

	draws := fb.byType(model.EventDraw)
	require.Len(t, draws, 1)
	payload, ok := draws[0].Payload.(model.DrawPayload)
	require.True(t, ok)
	assert.Equal(t, "second question", payload.Question)

	assert.Empty(t, room.Pending)
	assert.Equal(t, "second question", room.Question)
	assert.False(t, room.Answer)
	assert.Equal(t, testGame().Spawns[0], room.Member(1).Pos, "members respawn at their seats")
	assert.Equal(t, testGame().Spawns[1], room.Member(2).Pos)

	_, ok = s.rooms[room.Name]
	assert.True(t, ok, "a drawn room stays registered")
	assert.Empty(t, fb.byType(model.EventFinish))
}

func TestEndToEnd_FirstCorrectAnswerWins(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "Water is wet.", Answer: true}}})
	room := seatedRoom(t, s)

	// alice steps onto the true zone first and is correct
	s.Move(room.Name, 1, model.DirUp)
	assert.Empty(t, fb.byType(model.EventFinish), "round waits for every answer")

	// bob answers false; the response set is complete and alice wins
	s.Move(room.Name, 2, model.DirUp)

	finishes := fb.byType(model.EventFinish)
	require.Len(t, finishes, 1)
	payload := finishes[0].Payload.(model.FinishPayload)
	assert.Equal(t, int64(1), payload.Win)
	assert.True(t, payload.Answer)

	// the room is gone; further moves are dropped silently
	before := len(fb.events)
	s.Move(room.Name, 1, model.DirDown)
	assert.Len(t, fb.events, before)
}

func TestDisconnect_QueuedPlayerRemoved(t *testing.T) {
	s, _ := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})

	s.Join(1, "alice")
	s.Disconnect(1)

	assert.Equal(t, 0, s.queue.Len())

	// unknown tokens are ignored
	s.Disconnect(42)
}

func TestDisconnect_RoomMemberWalkover(t *testing.T) {
	s, fb := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	room := seatedRoom(t, s)

	s.Disconnect(1)

	finishes := fb.byType(model.EventFinish)
	require.Len(t, finishes, 1)
	assert.Equal(t, int64(2), finishes[0].Payload.(model.FinishPayload).Win)
	_, ok := s.rooms[room.Name]
	assert.False(t, ok)
}

func TestJoin_DuplicateTokenRejected(t *testing.T) {
	s, _ := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})

	s.Join(1, "alice")
	s.Join(1, "alice again")
	assert.Equal(t, 1, s.queue.Len())

	// a seated member cannot re-enter the queue either
	s.Join(2, "bob")
	s.Sweep()
	s.Join(1, "alice once more")
	assert.Equal(t, 0, s.queue.Len())
}

type fakeLeaderboard struct {
	wins chan string
}

func (f *fakeLeaderboard) IncrWins(ctx context.Context, name string) error {
	f.wins <- name
	return nil
}

func (f *fakeLeaderboard) GetTop(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}

func TestFinish_RecordsWin(t *testing.T) {
	s, _ := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})
	lb := &fakeLeaderboard{wins: make(chan string, 1)}
	s.SetLeaderboard(lb)

	room := seatedRoom(t, s)
	s.Move(room.Name, 1, model.DirUp)
	s.Move(room.Name, 2, model.DirUp)

	select {
	case name := <-lb.wins:
		assert.Equal(t, "alice", name)
	case <-time.After(time.Second):
		t.Fatal("win was not recorded")
	}
}

func TestStatus_RedactedProjection(t *testing.T) {
	s, _ := newTestService(&stubQuestions{list: []model.Question{{Text: "q", Answer: true}}})

	s.Join(1, "alice")
	s.Join(2, "bob")
	s.Join(3, "carol")
	s.Sweep()

	waiting, battles := s.Status()
	require.Len(t, waiting, 1)
	assert.Equal(t, WaitingEntry{Token: 3, Name: "carol"}, waiting[0])

	require.Len(t, battles, 1)
	assert.Equal(t, "battle-1", battles[0].Name)
	assert.Equal(t, []WaitingEntry{{Token: 1, Name: "alice"}, {Token: 2, Name: "bob"}}, battles[0].Members)
}
