package multiplayer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

func newTestCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	sessions := NewSessionRegistry()
	c := NewCoordinator(CoordinatorConfig{GameTimeout: time.Minute}, sessions)
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("game-%d", n)
	}
	c.Start()
	t.Cleanup(c.Stop)
	return c, sessions
}

func connect(t *testing.T, c *Coordinator, sessions *SessionRegistry, id SessionID) *ChannelSession {
	t.Helper()
	s := NewChannelSession(id, 16)
	sessions.Register(s)
	c.Send(SessionConnectedMsg{SessionID: id})
	if evt, ok := next(t, s).(ConnectedEvent); !ok || evt.ClientID != id {
		t.Fatalf("first event = %#v, expected ConnectedEvent for %s", evt, id)
	}
	return s
}

func next(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	case <-time.After(waitTimeout):
		t.Fatalf("session %s: no event within %v", s.ID(), waitTimeout)
		return nil
	}
}

type memorySaver struct {
	mu    sync.Mutex
	saved []LobbyScoreData
	ch    chan struct{}
}

func (m *memorySaver) SaveLobbyScore(data LobbyScoreData) error {
	m.mu.Lock()
	m.saved = append(m.saved, data)
	m.mu.Unlock()
	m.ch <- struct{}{}
	return nil
}

func TestSetName(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	alice := connect(t, c, sessions, "alice-id")

	c.Send(SetNameMsg{SessionID: "alice-id", ClientName: "  Alice "})
	evt, ok := next(t, alice).(NamedEvent)
	if !ok || evt.ClientName != "Alice" {
		t.Errorf("event = %#v, expected NamedEvent Alice", evt)
	}

	c.Send(SetNameMsg{SessionID: "alice-id", ClientName: ""})
	errEvt, ok := next(t, alice).(LobbyErrorEvent)
	if !ok || errEvt.Message != ErrNameRequired.Error() {
		t.Errorf("event = %#v, expected name required error", errEvt)
	}
}

func TestCreateRepliesToCreatorOnly(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	alice := connect(t, c, sessions, "alice-id")
	bob := connect(t, c, sessions, "bob-id")

	c.Send(CreateGameMsg{SessionID: "alice-id", GameName: "night run"})
	evt, ok := next(t, alice).(GameCreatedEvent)
	if !ok {
		t.Fatalf("event = %#v, expected GameCreatedEvent", evt)
	}
	if evt.Game.ID != "game-1" || evt.Game.Name != "night run" {
		t.Errorf("created game = %+v, expected game-1 'night run'", evt.Game)
	}
	if len(evt.Game.Clients) != 0 {
		t.Error("creating a game must not join it")
	}

	select {
	case e := <-bob.Events():
		t.Errorf("bob received %#v, expected nothing", e)
	case <-time.After(50 * time.Millisecond):
	}

	if c.GameCount() != 1 {
		t.Errorf("GameCount() = %d, expected 1", c.GameCount())
	}
}

func TestJoinBroadcastsMembers(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	alice := connect(t, c, sessions, "alice-id")
	bob := connect(t, c, sessions, "bob-id")

	c.Send(SetNameMsg{SessionID: "alice-id", ClientName: "Alice"})
	next(t, alice)
	c.Send(CreateGameMsg{SessionID: "alice-id", GameName: "race"})
	created := next(t, alice).(GameCreatedEvent)

	c.Send(JoinGameMsg{SessionID: "alice-id", GameID: created.Game.ID})
	joined := next(t, alice).(GameJoinedEvent)
	if len(joined.Game.Clients) != 1 || joined.Game.Clients[0].Name != "Alice" {
		t.Fatalf("clients = %+v, expected [Alice]", joined.Game.Clients)
	}

	c.Send(JoinGameMsg{SessionID: "bob-id", ClientName: "Bob", GameID: created.Game.ID})
	for _, s := range []*ChannelSession{alice, bob} {
		evt, ok := next(t, s).(GameJoinedEvent)
		if !ok {
			t.Fatalf("%s: event = %#v, expected GameJoinedEvent", s.ID(), evt)
		}
		if len(evt.Game.Clients) != 2 || evt.Game.Clients[1].Name != "Bob" {
			t.Errorf("%s: clients = %+v, expected [Alice Bob]", s.ID(), evt.Game.Clients)
		}
	}

	// joining twice does not duplicate membership
	c.Send(JoinGameMsg{SessionID: "bob-id", ClientName: "Bobby", GameID: created.Game.ID})
	evt := next(t, bob).(GameJoinedEvent)
	if len(evt.Game.Clients) != 2 || evt.Game.Clients[1].Name != "Bobby" {
		t.Errorf("clients = %+v, expected Bob renamed in place", evt.Game.Clients)
	}
}

func TestJoinUnknownGame(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	alice := connect(t, c, sessions, "alice-id")

	c.Send(JoinGameMsg{SessionID: "alice-id", ClientName: "Alice", GameID: "nope"})
	evt, ok := next(t, alice).(LobbyErrorEvent)
	if !ok || !strings.Contains(evt.Message, ErrGameNotFound.Error()) {
		t.Errorf("event = %#v, expected game not found", evt)
	}
}

func TestScoreSubmitLastWins(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	saver := &memorySaver{ch: make(chan struct{}, 4)}
	c.SetScoreSaver(saver)

	alice := connect(t, c, sessions, "alice-id")
	bob := connect(t, c, sessions, "bob-id")

	c.Send(CreateGameMsg{SessionID: "alice-id", GameName: "race"})
	id := next(t, alice).(GameCreatedEvent).Game.ID
	c.Send(JoinGameMsg{SessionID: "alice-id", ClientName: "Alice", GameID: id})
	next(t, alice)
	c.Send(JoinGameMsg{SessionID: "bob-id", ClientName: "Bob", GameID: id})
	next(t, alice)
	next(t, bob)

	c.Send(SubmitScoreMsg{SessionID: "bob-id", GameID: id, Score: 40, Distance: 300})
	for _, s := range []*ChannelSession{alice, bob} {
		evt := next(t, s).(ScoresUpdatedEvent)
		if len(evt.Game.Scores) != 1 || evt.Game.Scores[0].ClientName != "Bob" {
			t.Errorf("%s: scores = %+v, expected Bob's score", s.ID(), evt.Game.Scores)
		}
	}

	c.Send(SubmitScoreMsg{SessionID: "bob-id", GameID: id, Score: 75, Distance: 512})
	evt := next(t, alice).(ScoresUpdatedEvent)
	if len(evt.Game.Scores) != 1 {
		t.Fatalf("scores = %+v, expected one entry per client", evt.Game.Scores)
	}
	if evt.Game.Scores[0].Score != 75 || evt.Game.Scores[0].Distance != 512 {
		t.Errorf("score = %+v, expected the latest submission", evt.Game.Scores[0])
	}

	for i := 0; i < 2; i++ {
		select {
		case <-saver.ch:
		case <-time.After(waitTimeout):
			t.Fatal("score was not persisted")
		}
	}
	saver.mu.Lock()
	defer saver.mu.Unlock()
	if saver.saved[0].GameName != "race" || saver.saved[0].ClientName != "Bob" {
		t.Errorf("saved = %+v, expected race/Bob", saver.saved[0])
	}
}

func TestCleanupDropsAbandonedGames(t *testing.T) {
	c, sessions := newTestCoordinator(t)
	alice := connect(t, c, sessions, "alice-id")

	c.Send(CreateGameMsg{SessionID: "alice-id", GameName: "a"})
	kept := next(t, alice).(GameCreatedEvent).Game.ID
	c.Send(JoinGameMsg{SessionID: "alice-id", ClientName: "Alice", GameID: kept})
	next(t, alice)
	c.Send(CreateGameMsg{SessionID: "alice-id", GameName: "b"})
	empty := next(t, alice).(GameCreatedEvent).Game.ID

	c.cleanupAbandonedGames(time.Now().Add(2 * time.Minute))

	if _, ok := c.GetGame(empty); ok {
		t.Error("old game without connected members should be removed")
	}
	if _, ok := c.GetGame(kept); !ok {
		t.Error("game with a connected member should survive")
	}

	sessions.Unregister("alice-id")
	c.cleanupAbandonedGames(time.Now().Add(2 * time.Minute))
	if c.GameCount() != 0 {
		t.Errorf("GameCount() = %d, expected 0 after everyone left", c.GameCount())
	}
}

func TestRequestMessage(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"method":"scoreSubmit","clientId":"spoofed","clientName":"Eve","score":12,"distance":99,"gameId":"g1"}`))
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}

	msg, err := req.Message("real-id")
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	submit, ok := msg.(SubmitScoreMsg)
	if !ok {
		t.Fatalf("Message() = %#v, expected SubmitScoreMsg", msg)
	}
	if submit.SessionID != "real-id" || submit.Score != 12 || submit.Distance != 99 || submit.GameID != "g1" {
		t.Errorf("SubmitScoreMsg = %+v", submit)
	}

	if _, err := (Request{Method: "teleport"}).Message("x"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("unknown method error = %v, expected ErrUnknownMethod", err)
	}
	if _, err := DecodeRequest([]byte("{")); err == nil {
		t.Error("DecodeRequest should reject malformed JSON")
	}
}

func TestEncodeEvent(t *testing.T) {
	game := Game{
		ID:      "g1",
		Name:    "race",
		Clients: []Client{{ID: "a", Name: "Alice"}},
		Scores:  []Score{{ClientID: "a", ClientName: "Alice", Score: 30, Distance: 200}},
	}

	resp, err := EncodeEvent(GameCreatedEvent{Game: game})
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	if resp.Method != MethodCreate || resp.Game.ID != "g1" || resp.Game.Clients != nil {
		t.Errorf("create response = %+v, expected id and name only", resp)
	}

	resp, _ = EncodeEvent(ScoresUpdatedEvent{Game: game})
	if resp.Method != MethodScoreSubmit || len(resp.Game.Scores) != 1 || resp.Game.Scores[0].Score != 30 {
		t.Errorf("scoreSubmit response = %+v", resp)
	}

	resp, _ = EncodeEvent(ConnectedEvent{ClientID: "c1"})
	if resp.Method != MethodConnect || resp.ClientID != "c1" {
		t.Errorf("connect response = %+v", resp)
	}
}
