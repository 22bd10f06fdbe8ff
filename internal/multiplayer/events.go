package multiplayer

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// ConnectedEvent hands a new session its client id.
type ConnectedEvent struct {
	ClientID SessionID
}

func (ConnectedEvent) sessionEvent() {}

// NamedEvent confirms the name a client will be known by.
type NamedEvent struct {
	ClientName string
}

func (NamedEvent) sessionEvent() {}

// GameCreatedEvent is sent to the creator only.
type GameCreatedEvent struct {
	Game Game
}

func (GameCreatedEvent) sessionEvent() {}

// GameJoinedEvent is broadcast to every member when someone joins.
type GameJoinedEvent struct {
	Game Game
}

func (GameJoinedEvent) sessionEvent() {}

// ScoresUpdatedEvent is broadcast to every member when a score arrives.
type ScoresUpdatedEvent struct {
	Game Game
}

func (ScoresUpdatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// SessionConnectedMsg is sent once a session is registered.
type SessionConnectedMsg struct {
	SessionID SessionID
}

func (SessionConnectedMsg) coordinatorMessage() {}

// SetNameMsg sets the display name of a session.
type SetNameMsg struct {
	SessionID  SessionID
	ClientName string
}

func (SetNameMsg) coordinatorMessage() {}

// CreateGameMsg requests a new lobby game.
type CreateGameMsg struct {
	SessionID SessionID
	GameName  string
}

func (CreateGameMsg) coordinatorMessage() {}

// JoinGameMsg requests membership of an existing game.
// An empty ClientName falls back to the session's current name.
type JoinGameMsg struct {
	SessionID  SessionID
	ClientName string
	GameID     GameID
}

func (JoinGameMsg) coordinatorMessage() {}

// SubmitScoreMsg records a finished run in a game.
type SubmitScoreMsg struct {
	SessionID  SessionID
	ClientName string
	GameID     GameID
	Score      int
	Distance   int
}

func (SubmitScoreMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
