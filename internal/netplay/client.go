package netplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
)

// ErrClosed is returned once the lobby connection has gone away.
var ErrClosed = errors.New("netplay: connection closed")

// LobbyError is an error response sent by the lobby server.
type LobbyError struct {
	Message string
}

func (e *LobbyError) Error() string {
	return "netplay: lobby error: " + e.Message
}

// SessionState is what the lobby has told this client about itself.
type SessionState struct {
	ClientID   string
	ClientName string
	GameID     string
	GameName   string
}

// Client is one player's connection to the lobby.
// Calls are serialized; SubmitFinalResult never waits for a reply.
type Client struct {
	conn      *websocket.Conn
	writeWait time.Duration

	call sync.Mutex // one request/response exchange at a time

	writeMu sync.Mutex
	stateMu sync.RWMutex
	state   SessionState

	responses chan multiplayer.Response
	updates   chan multiplayer.Response
	done      chan struct{}
	readErr   error
}

// Dial connects to the lobby at url and waits for its client id.
func Dial(ctx context.Context, url string, writeWait time.Duration) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("netplay: cannot dial %s: %w", url, err)
	}
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	c := &Client{
		conn:      conn,
		writeWait: writeWait,
		responses: make(chan multiplayer.Response, 32),
		updates:   make(chan multiplayer.Response, 32),
		done:      make(chan struct{}),
	}
	go c.readLoop()

	if _, err := c.await(ctx, func(r multiplayer.Response) bool {
		return r.Method == multiplayer.MethodConnect
	}); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// State returns a copy of the session variables.
func (c *Client) State() SessionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Updates delivers join and score broadcasts for the current game.
// Old updates are dropped if nobody reads them.
func (c *Client) Updates() <-chan multiplayer.Response {
	return c.updates
}

// SetName registers the display name.
func (c *Client) SetName(ctx context.Context, name string) error {
	c.call.Lock()
	defer c.call.Unlock()

	c.drain()
	err := c.write(multiplayer.Request{
		Method:     multiplayer.MethodName,
		ClientID:   multiplayer.SessionID(c.State().ClientID),
		ClientName: name,
	})
	if err != nil {
		return err
	}
	_, err = c.await(ctx, func(r multiplayer.Response) bool {
		return r.Method == multiplayer.MethodName
	})
	return err
}

// Create opens a new game and joins it.
func (c *Client) Create(ctx context.Context, gameName string) (multiplayer.GameView, error) {
	c.call.Lock()
	defer c.call.Unlock()

	c.drain()
	if err := c.write(multiplayer.Request{Method: multiplayer.MethodCreate, GameName: gameName}); err != nil {
		return multiplayer.GameView{}, err
	}
	resp, err := c.await(ctx, func(r multiplayer.Response) bool {
		return r.Method == multiplayer.MethodCreate
	})
	if err != nil {
		return multiplayer.GameView{}, err
	}
	if resp.Game == nil {
		return multiplayer.GameView{}, errors.New("netplay: create response without game")
	}

	return c.join(ctx, resp.Game.ID)
}

// Join becomes a member of an existing game.
func (c *Client) Join(ctx context.Context, gameID string) (multiplayer.GameView, error) {
	c.call.Lock()
	defer c.call.Unlock()

	c.drain()
	return c.join(ctx, multiplayer.GameID(gameID))
}

func (c *Client) join(ctx context.Context, id multiplayer.GameID) (multiplayer.GameView, error) {
	st := c.State()
	err := c.write(multiplayer.Request{
		Method:     multiplayer.MethodJoin,
		ClientID:   multiplayer.SessionID(st.ClientID),
		ClientName: st.ClientName,
		GameID:     id,
	})
	if err != nil {
		return multiplayer.GameView{}, err
	}

	me := multiplayer.SessionID(st.ClientID)
	resp, err := c.await(ctx, func(r multiplayer.Response) bool {
		return r.Method == multiplayer.MethodJoin && r.Game != nil && r.Game.ID == id && hasClient(r.Game, me)
	})
	if err != nil {
		return multiplayer.GameView{}, err
	}
	return *resp.Game, nil
}

// SubmitScore sends a result and waits for the updated score table.
func (c *Client) SubmitScore(ctx context.Context, score, distance int) (multiplayer.GameView, error) {
	c.call.Lock()
	defer c.call.Unlock()

	c.drain()
	if err := c.sendScore(score, distance); err != nil {
		return multiplayer.GameView{}, err
	}

	me := multiplayer.SessionID(c.State().ClientID)
	resp, err := c.await(ctx, func(r multiplayer.Response) bool {
		return r.Method == multiplayer.MethodScoreSubmit && hasScore(r.Game, me, score, distance)
	})
	if err != nil {
		return multiplayer.GameView{}, err
	}
	return *resp.Game, nil
}

// SubmitFinalResult sends the final result without waiting for the
// broadcast, so it is safe to call from inside a game step.
func (c *Client) SubmitFinalResult(score, distance int) error {
	return c.sendScore(score, distance)
}

func (c *Client) sendScore(score, distance int) error {
	st := c.State()
	if st.GameID == "" {
		return errors.New("netplay: not in a game")
	}
	return c.write(multiplayer.Request{
		Method:     multiplayer.MethodScoreSubmit,
		ClientID:   multiplayer.SessionID(st.ClientID),
		ClientName: st.ClientName,
		GameID:     multiplayer.GameID(st.GameID),
		Score:      score,
		Distance:   distance,
	})
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	//nolint:errcheck // Best-effort close frame
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeWait))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) write(req multiplayer.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("netplay: cannot marshal request: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)) //nolint:errcheck // surfaced by WriteMessage
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("netplay: cannot send %s: %w", req.Method, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			return
		}

		var resp multiplayer.Response
		if err := json.Unmarshal(payload, &resp); err != nil {
			continue
		}
		c.apply(resp)

		if resp.Method == multiplayer.MethodJoin || resp.Method == multiplayer.MethodScoreSubmit {
			offer(c.updates, resp)
		}
		offer(c.responses, resp)
	}
}

// apply records session variables the way the lobby reports them.
func (c *Client) apply(resp multiplayer.Response) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	switch resp.Method {
	case multiplayer.MethodConnect:
		c.state.ClientID = string(resp.ClientID)
	case multiplayer.MethodName:
		c.state.ClientName = resp.ClientName
	case multiplayer.MethodJoin:
		if resp.Game != nil && hasClient(resp.Game, multiplayer.SessionID(c.state.ClientID)) {
			c.state.GameID = string(resp.Game.ID)
			c.state.GameName = resp.Game.GameName
		}
	}
}

// await reads responses until match accepts one, an error arrives or ctx ends.
func (c *Client) await(ctx context.Context, match func(multiplayer.Response) bool) (multiplayer.Response, error) {
	for {
		select {
		case resp := <-c.responses:
			if resp.Method == multiplayer.MethodError {
				return resp, &LobbyError{Message: resp.Message}
			}
			if match(resp) {
				return resp, nil
			}
		case <-c.done:
			if c.readErr != nil {
				return multiplayer.Response{}, fmt.Errorf("%w: %v", ErrClosed, c.readErr)
			}
			return multiplayer.Response{}, ErrClosed
		case <-ctx.Done():
			return multiplayer.Response{}, ctx.Err()
		}
	}
}

// drain discards responses nobody waited for.
func (c *Client) drain() {
	for {
		select {
		case <-c.responses:
		default:
			return
		}
	}
}

// offer enqueues resp, discarding the oldest entry when ch is full.
func offer(ch chan multiplayer.Response, resp multiplayer.Response) {
	for {
		select {
		case ch <- resp:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func hasClient(g *multiplayer.GameView, id multiplayer.SessionID) bool {
	if g == nil {
		return false
	}
	for _, c := range g.Clients {
		if c.ClientID == id {
			return true
		}
	}
	return false
}

func hasScore(g *multiplayer.GameView, id multiplayer.SessionID, score, distance int) bool {
	if g == nil {
		return false
	}
	for _, s := range g.Scores {
		if s.ClientID == id && s.Score == score && s.Distance == distance {
			return true
		}
	}
	return false
}
