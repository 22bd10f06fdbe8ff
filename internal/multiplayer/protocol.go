package multiplayer

import (
	"encoding/json"
	"fmt"
)

// Method names the kind of a lobby protocol message.
type Method string

const (
	MethodConnect     Method = "connect"
	MethodName        Method = "name"
	MethodCreate      Method = "create"
	MethodJoin        Method = "join"
	MethodScoreSubmit Method = "scoreSubmit"
	MethodError       Method = "error"
)

// Request is a message sent by a lobby client.
type Request struct {
	Method     Method    `json:"method"`
	ClientID   SessionID `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	GameName   string    `json:"gameName,omitempty"`
	GameID     GameID    `json:"gameId,omitempty"`
	Score      int       `json:"score"`
	Distance   int       `json:"distance"`
}

// Response is a message sent by the lobby server.
type Response struct {
	Method     Method    `json:"method"`
	ClientID   SessionID `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	Game       *GameView `json:"game,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// GameView is the wire form of a Game.
type GameView struct {
	ID       GameID       `json:"id"`
	GameName string       `json:"gameName"`
	Clients  []ClientView `json:"clients,omitempty"`
	Scores   []ScoreView  `json:"scores,omitempty"`
}

// ClientView is the wire form of a Client.
type ClientView struct {
	ClientID   SessionID `json:"clientId"`
	ClientName string    `json:"clientName"`
}

// ScoreView is the wire form of a Score.
type ScoreView struct {
	ClientID   SessionID `json:"clientId"`
	ClientName string    `json:"clientName"`
	Score      int       `json:"score"`
	Distance   int       `json:"distance"`
}

// DecodeRequest parses one client message.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("multiplayer: cannot decode request: %w", err)
	}
	return req, nil
}

// Message converts a request from session id into a coordinator message.
// The connection's own id is used; a clientId in the payload is ignored.
func (r Request) Message(id SessionID) (CoordinatorMessage, error) {
	switch r.Method {
	case MethodName:
		return SetNameMsg{SessionID: id, ClientName: r.ClientName}, nil
	case MethodCreate:
		return CreateGameMsg{SessionID: id, GameName: r.GameName}, nil
	case MethodJoin:
		return JoinGameMsg{SessionID: id, ClientName: r.ClientName, GameID: r.GameID}, nil
	case MethodScoreSubmit:
		return SubmitScoreMsg{
			SessionID:  id,
			ClientName: r.ClientName,
			GameID:     r.GameID,
			Score:      r.Score,
			Distance:   r.Distance,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, r.Method)
	}
}

// EncodeEvent converts a session event into its wire response.
func EncodeEvent(evt SessionEvent) (Response, error) {
	switch e := evt.(type) {
	case ConnectedEvent:
		return Response{Method: MethodConnect, ClientID: e.ClientID}, nil
	case NamedEvent:
		return Response{Method: MethodName, ClientName: e.ClientName}, nil
	case GameCreatedEvent:
		return Response{Method: MethodCreate, Game: &GameView{ID: e.Game.ID, GameName: e.Game.Name}}, nil
	case GameJoinedEvent:
		return Response{Method: MethodJoin, Game: viewOf(e.Game)}, nil
	case ScoresUpdatedEvent:
		return Response{Method: MethodScoreSubmit, Game: viewOf(e.Game)}, nil
	case LobbyErrorEvent:
		return Response{Method: MethodError, Message: e.Message}, nil
	default:
		return Response{}, fmt.Errorf("multiplayer: no wire form for %T", evt)
	}
}

func viewOf(g Game) *GameView {
	v := &GameView{ID: g.ID, GameName: g.Name}
	for _, c := range g.Clients {
		v.Clients = append(v.Clients, ClientView{ClientID: c.ID, ClientName: c.Name})
	}
	for _, s := range g.Scores {
		v.Scores = append(v.Scores, ScoreView{
			ClientID:   s.ClientID,
			ClientName: s.ClientName,
			Score:      s.Score,
			Distance:   s.Distance,
		})
	}
	return v
}
