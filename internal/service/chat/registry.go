package chat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/asistec/asistec/backend/internal/model/chat"
)

// ErrTransport reports that a session's connection is no longer writable.
var ErrTransport = errors.New("connection no longer writable")

// Conn is the write surface of a live relay connection. *websocket.Conn
// satisfies it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Registry tracks live relay sessions and their transcripts. Sessions are
// keyed by a generated session ID; the client identifier is metadata, and at
// most one active session exists per client identifier. Registering a
// duplicate replaces (and closes) the previous session.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]chat.Session
	conns       map[string]Conn
	transcripts map[string][]string
	byClient    map[string]string
	limit       int
}

// NewRegistry bootstraps the in-memory registry. limit caps each session's
// transcript; once exceeded the oldest lines are discarded.
func NewRegistry(limit int) *Registry {
	return &Registry{
		sessions:    make(map[string]chat.Session),
		conns:       make(map[string]Conn),
		transcripts: make(map[string][]string),
		byClient:    make(map[string]string),
		limit:       limit,
	}
}

// Register adds a connection under the supplied client identifier and
// initialises an empty transcript for it. An existing session for the same
// identifier is dropped and its connection closed.
func (r *Registry) Register(clientID string, conn Conn) chat.Session {
	session := chat.Session{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		CreatedAt: time.Now().UTC(),
	}

	var replaced Conn

	r.mu.Lock()
	if oldID, ok := r.byClient[clientID]; ok {
		replaced = r.conns[oldID]
		delete(r.sessions, oldID)
		delete(r.conns, oldID)
		delete(r.transcripts, oldID)
	}
	r.sessions[session.ID] = session
	r.conns[session.ID] = conn
	r.transcripts[session.ID] = make([]string, 0, 16)
	r.byClient[clientID] = session.ID
	r.mu.Unlock()

	if replaced != nil {
		_ = replaced.Close()
	}

	return session
}

// Unregister removes the session, its connection handle and its transcript.
// Unknown session IDs are a no-op.
func (r *Registry) Unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return
	}

	delete(r.sessions, sessionID)
	delete(r.conns, sessionID)
	delete(r.transcripts, sessionID)
	if current, ok := r.byClient[session.ClientID]; ok && current == sessionID {
		delete(r.byClient, session.ClientID)
	}
}

// Send delivers a text frame over the session's connection. Unknown sessions
// and write failures both surface as ErrTransport.
func (r *Registry) Send(sessionID, text string) error {
	r.mu.RLock()
	conn, ok := r.conns[sessionID]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: unknown session %s", ErrTransport, sessionID)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// Append adds one line to the session's transcript, discarding the oldest
// lines beyond the configured cap. Appends to torn-down sessions are dropped.
func (r *Registry) Append(sessionID, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, ok := r.transcripts[sessionID]
	if !ok {
		return
	}

	lines = append(lines, line)
	if r.limit > 0 && len(lines) > r.limit {
		trimmed := make([]string, r.limit)
		copy(trimmed, lines[len(lines)-r.limit:])
		lines = trimmed
	}
	r.transcripts[sessionID] = lines
}

// Transcript returns a copy of the transcript for the client identifier's
// active session.
func (r *Registry) Transcript(clientID string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.byClient[clientID]
	if !ok {
		return nil, false
	}

	lines := r.transcripts[sessionID]
	copied := make([]string, len(lines))
	copy(copied, lines)
	return copied, true
}

// Lookup retrieves the active session for a client identifier.
func (r *Registry) Lookup(clientID string) (chat.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.byClient[clientID]
	if !ok {
		return chat.Session{}, false
	}
	return r.sessions[sessionID], true
}

// Active reports the number of live sessions.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
