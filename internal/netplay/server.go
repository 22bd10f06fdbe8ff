// Package netplay carries the hyperspeed lobby protocol over websockets.
// The server side bridges each connection to a multiplayer.Coordinator;
// the client side is what a player's front end uses to name itself, create
// or join a game and submit its final result.
package netplay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
)

const (
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

// ServerConfig holds configuration for the lobby server.
type ServerConfig struct {
	WriteWait       time.Duration // Deadline for one outbound frame
	ReadBufferSize  int
	WriteBufferSize int
	EventBuffer     int // Per-client outbound queue length

	// Logger receives connection events. Nil uses a default stderr logger.
	Logger *log.Logger
}

// ServerConfigFrom maps the lobby section of the config file.
func ServerConfigFrom(cfg config.LobbyConfig) ServerConfig {
	return ServerConfig{
		WriteWait:       cfg.WriteWait,
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		EventBuffer:     cfg.EventBuffer,
	}
}

// NewLogger returns the lobby server's logger.
func NewLogger(level log.Level) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hyperspeed-lobby",
	})
	logger.SetLevel(level)
	return logger
}

// Server accepts websocket lobby clients.
type Server struct {
	config      ServerConfig
	logger      *log.Logger
	upgrader    websocket.Upgrader
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator

	mu    sync.Mutex
	conns map[multiplayer.SessionID]*websocket.Conn
}

// NewServer creates a lobby server backed by a fresh coordinator.
// saver may be nil.
func NewServer(cfg ServerConfig, saver multiplayer.ScoreSaver) *Server {
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogger(log.InfoLevel)
	}

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), sessions)
	if saver != nil {
		coordinator.SetScoreSaver(saver)
	}

	return &Server{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions:    sessions,
		coordinator: coordinator,
		conns:       make(map[multiplayer.SessionID]*websocket.Conn),
	}
}

// Start begins coordinator processing.
func (s *Server) Start() {
	s.coordinator.Start()
}

// Stop closes every connection and stops the coordinator.
func (s *Server) Stop() {
	s.mu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.coordinator.Stop()
}

// Coordinator exposes the lobby state (for debug and tests).
func (s *Server) Coordinator() *multiplayer.Coordinator {
	return s.coordinator
}

// Handler serves the lobby on "/" and "/ws".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Handle)
	mux.HandleFunc("/", s.Handle)
	return mux
}

// Handle upgrades one request and runs its session until the client leaves.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := multiplayer.SessionID(uuid.NewString())
	session := multiplayer.NewChannelSession(id, s.config.EventBuffer)

	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()
	s.sessions.Register(session)
	s.logger.Info("client connected", "client", id, "remote", r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(conn, session)
	}()

	s.coordinator.Send(multiplayer.SessionConnectedMsg{SessionID: id})
	s.readLoop(conn, session)

	s.sessions.Unregister(id)
	session.Close()
	<-writerDone
	s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})

	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
	conn.Close()

	s.logger.Info("client disconnected", "client", id, "dropped", session.Dropped())
}

// readLoop forwards client requests to the coordinator until the connection fails.
func (s *Server) readLoop(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	conn.SetReadLimit(maxMessageSize)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "client", session.ID(), "error", err)
			}
			return
		}

		req, err := multiplayer.DecodeRequest(payload)
		if err != nil {
			s.logger.Warn("discarding malformed message", "client", session.ID(), "error", err)
			session.Send(multiplayer.LobbyErrorEvent{Message: "malformed message"})
			continue
		}

		msg, err := req.Message(session.ID())
		if err != nil {
			s.logger.Debug("rejecting request", "client", session.ID(), "method", req.Method)
			session.Send(multiplayer.LobbyErrorEvent{Message: err.Error()})
			continue
		}

		s.logger.Debug("request", "client", session.ID(), "method", req.Method)
		s.coordinator.Send(msg)
	}
}

// writePump is the only writer on conn.
func (s *Server) writePump(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	for {
		select {
		case evt := <-session.Events():
			resp, err := multiplayer.EncodeEvent(evt)
			if err != nil {
				s.logger.Error("cannot encode event", "client", session.ID(), "error", err)
				continue
			}
			data, err := json.Marshal(resp)
			if err != nil {
				s.logger.Error("cannot marshal response", "client", session.ID(), "error", err)
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)) //nolint:errcheck // surfaced by WriteMessage
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Warn("write failed", "client", session.ID(), "error", err)
				conn.Close()
				return
			}

		case <-session.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			//nolint:errcheck // Best-effort close frame
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.config.WriteWait))
			return
		}
	}
}

// ListenAndServe serves the lobby on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.Start()
	defer s.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting lobby server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
