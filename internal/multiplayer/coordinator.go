package multiplayer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	GameTimeout   time.Duration // How long a game with no connected members survives
	CleanupPeriod time.Duration // How often to sweep abandoned games
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		GameTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// ScoreSaver persists lobby score submissions.
// This allows the coordinator to save scores without depending on the storage package.
type ScoreSaver interface {
	SaveLobbyScore(data LobbyScoreData) error
}

// LobbyScoreData contains one submission for persistence.
type LobbyScoreData struct {
	GameID     string
	GameName   string
	ClientID   string
	ClientName string
	Score      int
	Distance   int
}

// Coordinator owns every lobby game and serializes all lobby operations.
type Coordinator struct {
	config     CoordinatorConfig
	sessions   *SessionRegistry
	scoreSaver ScoreSaver // Optional, can be nil
	newID      func() string

	mu    sync.RWMutex
	games map[GameID]*Game
	names map[SessionID]string

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:   cfg,
		sessions: sessions,
		newID:    uuid.NewString,
		games:    make(map[GameID]*Game),
		names:    make(map[SessionID]string),
		msgChan:  make(chan CoordinatorMessage, 256),
		done:     make(chan struct{}),
	}
}

// SetScoreSaver sets the optional score saver.
func (c *Coordinator) SetScoreSaver(saver ScoreSaver) {
	c.scoreSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	if c.config.CleanupPeriod > 0 {
		go c.cleanupLoop()
	}
}

// Stop shuts down the coordinator. Safe to call multiple times.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Send queues a message for processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case SessionConnectedMsg:
		c.handleConnected(m)
	case SetNameMsg:
		c.handleSetName(m)
	case CreateGameMsg:
		c.handleCreateGame(m)
	case JoinGameMsg:
		c.handleJoinGame(m)
	case SubmitScoreMsg:
		c.handleSubmitScore(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) reply(id SessionID, evt SessionEvent) {
	if session, ok := c.sessions.Get(id); ok {
		session.Send(evt)
	}
}

func (c *Coordinator) replyError(id SessionID, err error) {
	c.reply(id, LobbyErrorEvent{Message: err.Error()})
}

// broadcast sends evt to every connected member of g. Must be called with lock held.
func (c *Coordinator) broadcast(g *Game, evt SessionEvent) {
	for _, client := range g.Clients {
		c.reply(client.ID, evt)
	}
}

func (c *Coordinator) handleConnected(msg SessionConnectedMsg) {
	c.reply(msg.SessionID, ConnectedEvent{ClientID: msg.SessionID})
}

func (c *Coordinator) handleSetName(msg SetNameMsg) {
	name := strings.TrimSpace(msg.ClientName)
	if name == "" {
		c.replyError(msg.SessionID, ErrNameRequired)
		return
	}

	c.mu.Lock()
	c.names[msg.SessionID] = name
	c.mu.Unlock()

	c.reply(msg.SessionID, NamedEvent{ClientName: name})
}

func (c *Coordinator) handleCreateGame(msg CreateGameMsg) {
	name := strings.TrimSpace(msg.GameName)
	if name == "" {
		name = "hyperspeed"
	}

	g := &Game{
		ID:        GameID(c.newID()),
		Name:      name,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.games[g.ID] = g
	view := g.clone()
	c.mu.Unlock()

	c.reply(msg.SessionID, GameCreatedEvent{Game: view})
}

func (c *Coordinator) handleJoinGame(msg JoinGameMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.games[msg.GameID]
	if !ok {
		c.replyError(msg.SessionID, fmt.Errorf("%w: %s", ErrGameNotFound, msg.GameID))
		return
	}

	name := c.clientName(msg.SessionID, msg.ClientName)
	g.addClient(Client{ID: msg.SessionID, Name: name})

	c.broadcast(g, GameJoinedEvent{Game: g.clone()})
}

func (c *Coordinator) handleSubmitScore(msg SubmitScoreMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.games[msg.GameID]
	if !ok {
		c.replyError(msg.SessionID, fmt.Errorf("%w: %s", ErrGameNotFound, msg.GameID))
		return
	}

	name := c.clientName(msg.SessionID, msg.ClientName)
	if !g.hasClient(msg.SessionID) {
		g.addClient(Client{ID: msg.SessionID, Name: name})
	}
	g.setScore(Score{
		ClientID:   msg.SessionID,
		ClientName: name,
		Score:      msg.Score,
		Distance:   msg.Distance,
	})

	if c.scoreSaver != nil {
		data := LobbyScoreData{
			GameID:     string(g.ID),
			GameName:   g.Name,
			ClientID:   string(msg.SessionID),
			ClientName: name,
			Score:      msg.Score,
			Distance:   msg.Distance,
		}
		// Best effort save, don't block on error
		go func() {
			_ = c.scoreSaver.SaveLobbyScore(data) //nolint:errcheck // intentional fire-and-forget
		}()
	}

	c.broadcast(g, ScoresUpdatedEvent{Game: g.clone()})
}

// clientName resolves the name to show for id. Must be called with lock held.
func (c *Coordinator) clientName(id SessionID, requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		c.names[id] = name
		return name
	}
	if name, ok := c.names[id]; ok {
		return name
	}
	return "anonymous"
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Membership and scores stay so the table survives reconnects;
	// the cleanup loop drops games nobody is connected to.
	delete(c.names, msg.SessionID)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupAbandonedGames(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupAbandonedGames(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, g := range c.games {
		if now.Sub(g.CreatedAt) <= c.config.GameTimeout {
			continue
		}
		if !c.anyConnected(g) {
			delete(c.games, id)
		}
	}
}

func (c *Coordinator) anyConnected(g *Game) bool {
	for _, client := range g.Clients {
		if _, ok := c.sessions.Get(client.ID); ok {
			return true
		}
	}
	return false
}

// GetGame returns a copy of a game by ID (for testing/debug).
func (c *Coordinator) GetGame(id GameID) (Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.games[id]
	if !ok {
		return Game{}, false
	}
	return g.clone(), true
}

// GameCount returns the number of open games.
func (c *Coordinator) GameCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}
