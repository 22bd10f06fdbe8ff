package multiplayer

import (
	"sort"
	"sync"
	"sync/atomic"
)

// SessionHandle is how the coordinator reaches one connected client.
// Send must never block the coordinator.
type SessionHandle interface {
	ID() SessionID
	Send(evt SessionEvent)
	Done() <-chan struct{}
}

// ChannelSession queues events on a buffered channel for a transport to drain.
// When the queue is full the oldest event is discarded.
type ChannelSession struct {
	id      SessionID
	events  chan SessionEvent
	done    chan struct{}
	closer  sync.Once
	dropped atomic.Int64
}

// NewChannelSession creates a session whose queue holds up to buffer events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send enqueues evt. Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	for {
		select {
		case s.events <- evt:
			return
		default:
		}

		// full: make room by discarding the oldest queued event
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
	}
}

// Events returns the queue the transport reads from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done is closed once the session ends.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many events were discarded because the queue was full.
func (s *ChannelSession) Dropped() int64 {
	return s.dropped.Load()
}

// Close ends the session. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.closer.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session, replacing any previous one with the same id.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the registered session ids in sorted order.
func (r *SessionRegistry) IDs() []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
