// Package multiplayer coordinates hyperspeed lobbies: clients pick a name,
// create or join a game, and share their final scores with everyone else in
// that game. It is transport neutral; internal/netplay carries the messages
// over websockets.
package multiplayer

import (
	"errors"
	"time"
)

// SessionID identifies one connected client. It doubles as the clientId of
// the lobby protocol.
type SessionID string

// GameID identifies a lobby game.
type GameID string

// Lobby errors reported back to clients.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrUnknownMethod = errors.New("unknown method")
	ErrNameRequired  = errors.New("client name required")
)

// Client is a member of a lobby game.
type Client struct {
	ID   SessionID
	Name string
}

// Score is the last result a client submitted to a game.
type Score struct {
	ClientID   SessionID
	ClientName string
	Score      int
	Distance   int
}

// Game is a lobby game and its shared score table.
type Game struct {
	ID        GameID
	Name      string
	Clients   []Client
	Scores    []Score
	CreatedAt time.Time
}

// clone returns a deep copy safe to hand to other goroutines.
func (g *Game) clone() Game {
	out := *g
	out.Clients = append([]Client(nil), g.Clients...)
	out.Scores = append([]Score(nil), g.Scores...)
	return out
}

// addClient adds c or renames it if already present.
func (g *Game) addClient(c Client) {
	for i := range g.Clients {
		if g.Clients[i].ID == c.ID {
			g.Clients[i].Name = c.Name
			return
		}
	}
	g.Clients = append(g.Clients, c)
}

// setScore replaces the client's previous score or appends a new one.
func (g *Game) setScore(s Score) {
	for i := range g.Scores {
		if g.Scores[i].ClientID == s.ClientID {
			g.Scores[i] = s
			return
		}
	}
	g.Scores = append(g.Scores, s)
}

func (g *Game) hasClient(id SessionID) bool {
	for _, c := range g.Clients {
		if c.ID == id {
			return true
		}
	}
	return false
}
